package weather

import "strings"

const unknownDescription = "Conditions inconnues"

var descriptions = map[int]string{
	0:  "Ciel dégagé",
	1:  "Principalement dégagé",
	2:  "Partiellement nuageux",
	3:  "Nuageux",
	45: "Brouillard",
	48: "Brouillard givrant",
	51: "Bruine légère",
	53: "Bruine modérée",
	55: "Bruine forte",
	56: "Bruine verglaçante",
	57: "Bruine verglaçante forte",
	61: "Pluie légère",
	63: "Pluie modérée",
	65: "Pluie forte",
	66: "Pluie verglaçante",
	67: "Pluie verglaçante forte",
	71: "Neige légère",
	73: "Neige modérée",
	75: "Neige forte",
	77: "Grains de neige",
	80: "Averses légères",
	81: "Averses modérées",
	82: "Averses fortes",
	85: "Averses de neige",
	86: "Fortes averses de neige",
	95: "Orage",
	96: "Orage avec grêle",
	99: "Orage avec forte grêle",
}

// Describe returns the French description of a WMO weather code
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return unknownDescription
}

// Condition is the lower-cased description
func Condition(code int) string {
	return strings.ToLower(Describe(code))
}

// Icon returns the icon name of a WMO weather code
func Icon(code int) string {
	switch {
	case code == 0 || code == 1:
		return "sunny"
	case code == 2:
		return "partly-sunny"
	case code == 3:
		return "cloud"
	case code >= 45 && code <= 48:
		return "cloudy"
	case code >= 51 && code <= 67:
		return "rainy"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rainy"
	case code >= 95:
		return "thunderstorm"
	default:
		return "partly-sunny"
	}
}
