package config

// DefaultSources maps each ingestion language to the clinic treatment pages
// published in that language.
func DefaultSources() map[string][]string {
	return map[string][]string{
		"en": {
			"https://savaclinic.com/treatments/obesity-surgery/",
			"https://savaclinic.com/bariatric-surgery/gastric-sleeve/",
			"https://savaclinic.com/bariatric-surgery/gastric-bypass/",
			"https://savaclinic.com/treatments/obesity-surgery/gastric-bypass-revision/",
			"https://savaclinic.com/bariatric-surgery/gastric-balloon/",
			"https://savaclinic.com/treatments/plastic-surgery/",
			"https://savaclinic.com/treatments/plastic-surgery/rhinoplasty/",
			"https://savaclinic.com/treatments/plastic-surgery/face-lift/",
			"https://savaclinic.com/treatments/plastic-surgery/bichectomy/",
			"https://savaclinic.com/treatments/plastic-surgery/breast-augmentation/",
			"https://savaclinic.com/treatments/plastic-surgery/breast-reconstruction/",
			"https://savaclinic.com/treatments/plastic-surgery/breast-reduction/",
			"https://savaclinic.com/treatments/plastic-surgery/liposuction/",
			"https://savaclinic.com/treatments/plastic-surgery/tummy-tuck-abdominoplasty/",
			"https://savaclinic.com/treatments/plastic-surgery/arm-and-thigh-lift/",
			"https://savaclinic.com/treatments/plastic-surgery/mommy-makeover/",
		},
		"es": {
			"https://savaclinic.com/es/tratos/cirugia-de-la-obesidad/",
			"https://savaclinic.com/es/tratos/cirugia-de-la-obesidad/manga-gastrica/",
			"https://savaclinic.com/es/tratos/cirugia-de-la-obesidad/bypass-gastrico/",
			"https://savaclinic.com/es/tratos/cirugia-de-la-obesidad/revision-del-bypass-gastrico/",
			"https://savaclinic.com/es/tratos/cirugia-de-la-obesidad/balon-gastrico/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/rinoplastia/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/estiramiento-facial/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/bichectomia/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/aumento-de-senos/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/reconstruccion-mamaria/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/reduccion-de-mama/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/liposuccion/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/tummy-tuck-abdominoplastia/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/lifting-de-brazos-y-muslos/",
			"https://savaclinic.com/es/tratos/cirugia-plastica/mommy-makeover/",
		},
		"sr": {
			"https://savaclinic.com/sr/tretmani/operacija-gojaznosti/",
			"https://savaclinic.com/sr/tretmani/operacija-gojaznosti/gastricki-bajpas/",
			"https://savaclinic.com/sr/tretmani/operacija-gojaznosti/sleeve-gastrektomija/",
			"https://savaclinic.com/sr/tretmani/operacija-gojaznosti/gastricni-balon/",
			"https://savaclinic.com/sr/tretmani/operacija-gojaznosti/revizija-gastricnog-bajpasa/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/rinoplastika/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/podmladjivanje-lica/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/bihektomija/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/povecanje-grudi/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/rekonstrukcija-dojke/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/smanjenje-grudi/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/liposukcija/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/zatezanje-stomaka-abdominoplastika/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/lifting-ruku-i-butina/",
			"https://savaclinic.com/sr/tretmani/plasticna-operacija/mama-makeover/",
		},
		"fr": {
			"https://savaclinic.com/fr/traitements/chirurgie-de-lobesite/",
			"https://savaclinic.com/fr/chirurgie-de-lobesite/bypass-gastrique/",
			"https://savaclinic.com/fr/chirurgie-de-lobesite/revision-du-bypass-gastrique/",
			"https://savaclinic.com/fr/traitements/chirurgie-de-lobesite/sleeve-gastrique/",
			"https://savaclinic.com/fr/traitements/chirurgie-de-lobesite/ballon-gastrique/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/rhinoplastie/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/lifting-facial/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/bichectomie/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/augmentation-mammaire/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/reconstruction-mammaire/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/reduction-mammaire/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/liposuccion/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/abdominoplastie-redrapage-abdominal/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/lifting-des-bras-et-des-cuisses/",
			"https://savaclinic.com/fr/traitements/chirurgie-plastique/mommy-makeover/",
		},
	}
}
