package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// stateCities - справочник регионов и их крупнейших городов для выпадающих списков фильтра.
var stateCities = map[string][]string{
	"Andhra Pradesh":    {"Visakhapatnam", "Vijayawada", "Guntur", "Nellore", "Kurnool"},
	"Arunachal Pradesh": {"Itanagar", "Naharlagun", "Pasighat", "Tezpur", "Bomdila"},
	"Assam":             {"Guwahati", "Silchar", "Dibrugarh", "Jorhat", "Nagaon"},
	"Bihar":             {"Patna", "Gaya", "Bhagalpur", "Muzaffarpur", "Purnia"},
	"Chhattisgarh":      {"Raipur", "Bilaspur", "Korba", "Durg", "Raigarh"},
	"Goa":               {"Panaji", "Vasco da Gama", "Margao", "Mapusa", "Ponda"},
	"Gujarat":           {"Ahmedabad", "Surat", "Vadodara", "Rajkot", "Bhavnagar"},
	"Haryana":           {"Gurgaon", "Faridabad", "Panipat", "Ambala", "Yamunanagar"},
	"Himachal Pradesh":  {"Shimla", "Solan", "Dharamshala", "Mandi", "Kullu"},
	"Jharkhand":         {"Ranchi", "Jamshedpur", "Dhanbad", "Bokaro", "Deoghar"},
	"Karnataka":         {"Bangalore", "Mysore", "Hubli", "Mangalore", "Belgaum"},
	"Kerala":            {"Kochi", "Thiruvananthapuram", "Kozhikode", "Thrissur", "Kollam"},
	"Madhya Pradesh":    {"Bhopal", "Indore", "Gwalior", "Jabalpur", "Ujjain"},
	"Maharashtra":       {"Mumbai", "Pune", "Nagpur", "Thane", "Nashik"},
	"Manipur":           {"Imphal", "Thoubal", "Bishnupur", "Churachandpur", "Kakching"},
	"Meghalaya":         {"Shillong", "Tura", "Cherrapunji", "Jowai", "Nongstoin"},
	"Mizoram":           {"Aizawl", "Lunglei", "Saiha", "Champhai", "Kolasib"},
	"Nagaland":          {"Kohima", "Dimapur", "Tuensang", "Mokokchung", "Wokha"},
	"Odisha":            {"Bhubaneswar", "Cuttack", "Rourkela", "Brahmapur", "Sambalpur"},
	"Punjab":            {"Chandigarh", "Ludhiana", "Amritsar", "Jalandhar", "Patiala"},
	"Rajasthan":         {"Jaipur", "Jodhpur", "Kota", "Bikaner", "Ajmer"},
	"Sikkim":            {"Gangtok", "Namchi", "Geyzing", "Mangan", "Jorethang"},
	"Tamil Nadu":        {"Chennai", "Coimbatore", "Madurai", "Tiruchirappalli", "Salem"},
	"Telangana":         {"Hyderabad", "Warangal", "Nizamabad", "Khammam", "Karimnagar"},
	"Tripura":           {"Agartala", "Udaipur", "Dharmanagar", "Kailashahar", "Belonia"},
	"Uttar Pradesh":     {"Lucknow", "Kanpur", "Ghaziabad", "Agra", "Meerut"},
	"Uttarakhand":       {"Dehradun", "Haridwar", "Roorkee", "Haldwani", "Kashipur"},
	"West Bengal":       {"Kolkata", "Howrah", "Durgapur", "Asansol", "Siliguri"},
}

var topCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Ahmedabad",
	"Chennai", "Kolkata", "Pune", "Jaipur", "Lucknow",
	"Kanpur", "Nagpur", "Indore", "Thane", "Bhopal",
	"Visakhapatnam", "Patna", "Vadodara", "Ghaziabad", "Ludhiana",
}

// States возвращает отсортированный список регионов.
func States() []string {
	states := make([]string, 0, len(stateCities))
	for s := range stateCities {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// NormalizeState приводит название региона к написанию из справочника без учёта регистра.
func NormalizeState(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := stateCities[name]; ok {
		return name, true
	}
	folder := cases.Fold()
	key := folder.String(name)
	for s := range stateCities {
		if folder.String(s) == key {
			return s, true
		}
	}
	return "", false
}

// CitiesOf возвращает города региона. Для неизвестного региона - пустой список.
func CitiesOf(state string) []string {
	canonical, ok := NormalizeState(state)
	if !ok {
		return []string{}
	}
	cities := stateCities[canonical]
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}

// AllCities возвращает все города справочника в алфавитном порядке.
func AllCities() []string {
	var cities []string
	for _, list := range stateCities {
		cities = append(cities, list...)
	}
	sort.Strings(cities)
	return cities
}

// TopCities - самые популярные города для быстрого выбора.
func TopCities() []string {
	out := make([]string, len(topCities))
	copy(out, topCities)
	return out
}
