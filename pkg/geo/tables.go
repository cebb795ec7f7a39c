package geo

// UnknownDepartment is the display label for a code missing from the tables.
const UnknownDepartment = "Département inconnu"

const (
	regionARA  = "Auvergne-Rhône-Alpes"
	regionBFC  = "Bourgogne-Franche-Comté"
	regionBRE  = "Bretagne"
	regionCVL  = "Centre-Val de Loire"
	regionCOR  = "Corse"
	regionGES  = "Grand Est"
	regionHDF  = "Hauts-de-France"
	regionIDF  = "Île-de-France"
	regionNOR  = "Normandie"
	regionNAQ  = "Nouvelle-Aquitaine"
	regionOCC  = "Occitanie"
	regionPDL  = "Pays de la Loire"
	regionPACA = "Provence-Alpes-Côte d'Azur"
	regionGUA  = "Guadeloupe"
	regionMTQ  = "Martinique"
	regionGUF  = "Guyane"
	regionREU  = "La Réunion"
	regionMAY  = "Mayotte"
)

// departmentRegion is total over the 101 department codes.
var departmentRegion = map[string]string{
	"01": regionARA, "03": regionARA, "07": regionARA, "15": regionARA, "26": regionARA, "38": regionARA,
	"42": regionARA, "43": regionARA, "63": regionARA, "69": regionARA, "73": regionARA, "74": regionARA,

	"21": regionBFC, "25": regionBFC, "39": regionBFC, "58": regionBFC, "70": regionBFC, "71": regionBFC,
	"89": regionBFC, "90": regionBFC,

	"22": regionBRE, "29": regionBRE, "35": regionBRE, "56": regionBRE,

	"18": regionCVL, "28": regionCVL, "36": regionCVL, "37": regionCVL, "41": regionCVL, "45": regionCVL,

	"08": regionGES, "10": regionGES, "51": regionGES, "52": regionGES, "54": regionGES, "55": regionGES,
	"57": regionGES, "67": regionGES, "68": regionGES, "88": regionGES,

	"02": regionHDF, "59": regionHDF, "60": regionHDF, "62": regionHDF, "80": regionHDF,

	"75": regionIDF, "77": regionIDF, "78": regionIDF, "91": regionIDF, "92": regionIDF, "93": regionIDF,
	"94": regionIDF, "95": regionIDF,

	"14": regionNOR, "27": regionNOR, "50": regionNOR, "61": regionNOR, "76": regionNOR,

	"16": regionNAQ, "17": regionNAQ, "19": regionNAQ, "23": regionNAQ, "24": regionNAQ, "33": regionNAQ,
	"40": regionNAQ, "47": regionNAQ, "64": regionNAQ, "79": regionNAQ, "86": regionNAQ, "87": regionNAQ,

	"09": regionOCC, "11": regionOCC, "12": regionOCC, "30": regionOCC, "31": regionOCC, "32": regionOCC,
	"34": regionOCC, "46": regionOCC, "48": regionOCC, "65": regionOCC, "66": regionOCC, "81": regionOCC,
	"82": regionOCC,

	"04": regionPACA, "05": regionPACA, "06": regionPACA, "13": regionPACA, "83": regionPACA, "84": regionPACA,

	"44": regionPDL, "49": regionPDL, "53": regionPDL, "72": regionPDL, "85": regionPDL,

	"2A": regionCOR, "2B": regionCOR,

	"971": regionGUA, "972": regionMTQ, "973": regionGUF, "974": regionREU, "976": regionMAY,
}

var departmentNames = map[string]string{
	"01": "Ain", "02": "Aisne", "03": "Allier", "04": "Alpes-de-Haute-Provence", "05": "Hautes-Alpes",
	"06": "Alpes-Maritimes", "07": "Ardèche", "08": "Ardennes", "09": "Ariège", "10": "Aube",
	"11": "Aude", "12": "Aveyron", "13": "Bouches-du-Rhône", "14": "Calvados", "15": "Cantal",
	"16": "Charente", "17": "Charente-Maritime", "18": "Cher", "19": "Corrèze", "2A": "Corse-du-Sud",
	"2B": "Haute-Corse", "21": "Côte-d'Or", "22": "Côtes-d'Armor", "23": "Creuse", "24": "Dordogne",
	"25": "Doubs", "26": "Drôme", "27": "Eure", "28": "Eure-et-Loir", "29": "Finistère",
	"30": "Gard", "31": "Haute-Garonne", "32": "Gers", "33": "Gironde", "34": "Hérault",
	"35": "Ille-et-Vilaine", "36": "Indre", "37": "Indre-et-Loire", "38": "Isère", "39": "Jura",
	"40": "Landes", "41": "Loir-et-Cher", "42": "Loire", "43": "Haute-Loire", "44": "Loire-Atlantique",
	"45": "Loiret", "46": "Lot", "47": "Lot-et-Garonne", "48": "Lozère", "49": "Maine-et-Loire",
	"50": "Manche", "51": "Marne", "52": "Haute-Marne", "53": "Mayenne", "54": "Meurthe-et-Moselle",
	"55": "Meuse", "56": "Morbihan", "57": "Moselle", "58": "Nièvre", "59": "Nord",
	"60": "Oise", "61": "Orne", "62": "Pas-de-Calais", "63": "Puy-de-Dôme", "64": "Pyrénées-Atlantiques",
	"65": "Hautes-Pyrénées", "66": "Pyrénées-Orientales", "67": "Bas-Rhin", "68": "Haut-Rhin", "69": "Rhône",
	"70": "Haute-Saône", "71": "Saône-et-Loire", "72": "Sarthe", "73": "Savoie", "74": "Haute-Savoie",
	"75": "Paris", "76": "Seine-Maritime", "77": "Seine-et-Marne", "78": "Yvelines", "79": "Deux-Sèvres",
	"80": "Somme", "81": "Tarn", "82": "Tarn-et-Garonne", "83": "Var", "84": "Vaucluse",
	"85": "Vendée", "86": "Vienne", "87": "Haute-Vienne", "88": "Vosges", "89": "Yonne",
	"90": "Territoire de Belfort", "91": "Essonne", "92": "Hauts-de-Seine", "93": "Seine-Saint-Denis",
	"94": "Val-de-Marne", "95": "Val-d'Oise", "971": "Guadeloupe", "972": "Martinique",
	"973": "Guyane", "974": "La Réunion", "976": "Mayotte",
}

// regionNames lists the display names of the 18 regions in map order.
var regionNames = []string{
	regionARA, regionBFC, regionBRE, regionCVL, regionCOR, regionGES, regionHDF, regionIDF, regionNOR,
	regionNAQ, regionOCC, regionPDL, regionPACA, regionGUA, regionMTQ, regionGUF, regionREU, regionMAY,
}
