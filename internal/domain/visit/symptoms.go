package visit

// Symptom is one entry of the kiosk's symptom picker: a stable key and the
// on-screen Korean label.
type Symptom struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Symptoms is the picker list in display order.
var Symptoms = []Symptom{
	{"fever", "발열‧오한"},
	{"cough", "기침‧가래"},
	{"soreth", "인후통"},
	{"stomach", "복통‧소화불량"},
	{"diarr", "설사"},
	{"headache", "두통"},
	{"dizzy", "어지럼증"},
	{"skin", "피부발진"},
	{"injury", "타박상‧상처"},
	{"etc", "기타"},
}

// DefaultDepartment receives every visitor whose symptom key is unknown.
const DefaultDepartment = "가정의학과"

// DefaultSymptomMap routes symptom keys to departments. Injectable so tests
// can substitute a smaller table.
func DefaultSymptomMap() map[string]string {
	return map[string]string{
		"fever":    "내과",
		"cough":    "호흡기내과",
		"soreth":   "이비인후과",
		"stomach":  "소화기내과",
		"diarr":    "감염내과",
		"headache": "신경과",
		"dizzy":    "신경과",
		"skin":     "피부과",
		"injury":   "외과",
		"etc":      DefaultDepartment,
	}
}

// SymptomKeyForLabel resolves an on-screen label back to its key. Returns
// false when the label is not in the picker list.
func SymptomKeyForLabel(label string) (string, bool) {
	for _, s := range Symptoms {
		if s.Label == label {
			return s.Key, true
		}
	}
	return "", false
}
