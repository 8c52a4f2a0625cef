package gazetteer

import "coastwatch/types"

type cityEntry struct {
	name    string
	state   string
	point   types.GeoPoint
	aliases []string
}

type stateEntry struct {
	name    string
	point   types.GeoPoint
	aliases []string
}

// Coastal cities with the vernacular spellings and shorthand that show up
// in posts. Canonical names follow the current official spellings.
var cities = []cityEntry{
	{"Chennai", "Tamil Nadu", types.GeoPoint{Lat: 13.0827, Lon: 80.2707},
		[]string{"chennai", "madras", "சென்னை", "চেন্নাই", "ചെന്നൈ", "चेन्नई"}},
	{"Mumbai", "Maharashtra", types.GeoPoint{Lat: 19.0760, Lon: 72.8777},
		[]string{"mumbai", "bombay", "मुंबई", "ముంబై"}},
	{"Kolkata", "West Bengal", types.GeoPoint{Lat: 22.5726, Lon: 88.3639},
		[]string{"kolkata", "calcutta", "কলকাতা"}},
	{"Visakhapatnam", "Andhra Pradesh", types.GeoPoint{Lat: 17.6868, Lon: 83.2185},
		[]string{"visakhapatnam", "vizag", "విశాఖపట్నం"}},
	{"Kochi", "Kerala", types.GeoPoint{Lat: 9.9312, Lon: 76.2673},
		[]string{"kochi", "cochin", "കൊച്ചി"}},
	{"Thiruvananthapuram", "Kerala", types.GeoPoint{Lat: 8.5241, Lon: 76.9366},
		[]string{"thiruvananthapuram", "trivandrum", "തിരുവനന്തപുരം"}},
	{"Puri", "Odisha", types.GeoPoint{Lat: 19.8135, Lon: 85.8312},
		[]string{"puri", "ପୁରୀ"}},
	{"Paradip", "Odisha", types.GeoPoint{Lat: 20.3164, Lon: 86.6085},
		[]string{"paradip", "paradeep"}},
	{"Mangaluru", "Karnataka", types.GeoPoint{Lat: 12.9141, Lon: 74.8560},
		[]string{"mangaluru", "mangalore"}},
	{"Panaji", "Goa", types.GeoPoint{Lat: 15.4909, Lon: 73.8278},
		[]string{"panaji", "panjim"}},
	{"Puducherry", "Puducherry", types.GeoPoint{Lat: 11.9416, Lon: 79.8083},
		[]string{"puducherry", "pondicherry", "pondy"}},
	{"Surat", "Gujarat", types.GeoPoint{Lat: 21.1702, Lon: 72.8311},
		[]string{"surat"}},
	{"Digha", "West Bengal", types.GeoPoint{Lat: 21.6266, Lon: 87.5074},
		[]string{"digha"}},
	{"Kanyakumari", "Tamil Nadu", types.GeoPoint{Lat: 8.0883, Lon: 77.5385},
		[]string{"kanyakumari", "cape comorin"}},
	{"Chellanam", "Kerala", types.GeoPoint{Lat: 9.8530, Lon: 76.2750},
		[]string{"chellanam"}},
	{"Alibag", "Maharashtra", types.GeoPoint{Lat: 18.6411, Lon: 72.8724},
		[]string{"alibag", "alibaug"}},
}

// Coastal states. Postal abbreviations are kept from the source system.
var states = []stateEntry{
	{"Tamil Nadu", types.GeoPoint{Lat: 11.1271, Lon: 78.6569}, []string{"tamil nadu", "tamilnadu", "tn"}},
	{"Kerala", types.GeoPoint{Lat: 10.8505, Lon: 76.2711}, []string{"kerala", "kl"}},
	{"Andhra Pradesh", types.GeoPoint{Lat: 15.9129, Lon: 79.7400}, []string{"andhra pradesh", "andhra", "ap"}},
	{"Odisha", types.GeoPoint{Lat: 20.9517, Lon: 85.0985}, []string{"odisha", "orissa"}},
	{"West Bengal", types.GeoPoint{Lat: 22.9868, Lon: 87.8550}, []string{"west bengal", "wb"}},
	{"Maharashtra", types.GeoPoint{Lat: 19.7515, Lon: 75.7139}, []string{"maharashtra", "mh"}},
	{"Gujarat", types.GeoPoint{Lat: 22.2587, Lon: 71.1924}, []string{"gujarat", "gj"}},
	{"Karnataka", types.GeoPoint{Lat: 15.3173, Lon: 75.7139}, []string{"karnataka", "ka"}},
	{"Goa", types.GeoPoint{Lat: 15.2993, Lon: 74.1240}, []string{"goa"}},
}
