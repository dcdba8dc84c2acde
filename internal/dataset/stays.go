package dataset

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

var departments = []string{"Cardiology", "Orthopedics", "Neurology", "General", "Oncology"}

// Stay is a single hospital admission.
type Stay struct {
	AdmissionID     string    `json:"admission_id"`
	PatientID       string    `json:"patient_id"`
	AdmitDate       time.Time `json:"admit_date"`
	Department      string    `json:"department"`
	Age             int       `json:"age"`
	Severity        int       `json:"severity"`
	Emergency       bool      `json:"emergency"`
	PriorAdmissions int       `json:"prior_admissions"`
	Procedures      int       `json:"procedures"`
	Comorbidities   int       `json:"comorbidities"`
	LengthOfStay    float64   `json:"length_of_stay"`
}

// GenerateStays builds n synthetic admissions. The same seed always yields
// the same stays.
func GenerateStays(n int, seed int64) []Stay {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Stay, 0, n)
	for i := 0; i < n; i++ {
		s := Stay{
			AdmissionID:     "A" + strconv.Itoa(1000000+i),
			PatientID:       "P" + strconv.Itoa(rng.Intn(5000)),
			AdmitDate:       base.AddDate(0, 0, rng.Intn(365)),
			Department:      departments[rng.Intn(len(departments))],
			Age:             18 + rng.Intn(75),
			Severity:        1 + rng.Intn(4),
			Emergency:       rng.Float64() < 0.35,
			PriorAdmissions: rng.Intn(6),
			Procedures:      rng.Intn(5),
			Comorbidities:   rng.Intn(4),
		}

		los := 1.5 + 1.8*float64(s.Severity) + 0.04*float64(s.Age-18) +
			1.2*float64(s.Procedures) + 0.9*float64(s.Comorbidities) + 0.3*float64(s.PriorAdmissions)
		if s.Emergency {
			los += 2.0
		}
		switch s.Department {
		case "Oncology":
			los += 3.0
		case "Orthopedics":
			los += 1.0
		}
		los += rng.NormFloat64() * 1.5
		s.LengthOfStay = math.Round(math.Max(los, 0.5)*10) / 10
		out = append(out, s)
	}
	return out
}

// StaysFrame turns stays into numeric features with one-hot departments and
// returns the lengths of stay as targets.
func StaysFrame(stays []Stay) (Frame, []float64) {
	names := []string{"age", "severity", "emergency", "prior_admissions", "procedures", "comorbidities"}
	for _, d := range departments {
		names = append(names, "dept_"+strings.ToLower(d))
	}

	rows := make([][]float64, len(stays))
	y := make([]float64, len(stays))
	for i, s := range stays {
		vec := make([]float64, 0, len(names))
		vec = append(vec,
			float64(s.Age),
			float64(s.Severity),
			boolToFloat(s.Emergency),
			float64(s.PriorAdmissions),
			float64(s.Procedures),
			float64(s.Comorbidities),
		)
		for _, d := range departments {
			vec = append(vec, boolToFloat(strings.EqualFold(d, s.Department)))
		}
		rows[i] = vec
		y[i] = s.LengthOfStay
	}
	return Frame{Columns: names, Rows: rows}, y
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
