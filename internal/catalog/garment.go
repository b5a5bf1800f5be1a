package catalog

import "fitroom/internal/models"

type Garment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ImageURL string `json:"imageUrl"`
}

// SizeChart holds one brand+garment pairing's ideal measurements per size.
// Sizes keeps the brand's natural ordering (S, M, L, XL, ...), which is also
// the tie-break order for best-fit selection.
type SizeChart struct {
	GarmentType string
	Sizes       []string
	Rows        map[string]models.Measurements
}

var garments = []Garment{
	{
		ID:       "uniqlo-airism",
		Name:     "UNIQLO Airism Crew Neck",
		Type:     "shirt",
		ImageURL: "https://picsum.photos/seed/uniqlo-shirt/800/1000",
	},
	{
		ID:       "generic-jeans",
		Name:     "Classic Denim Jeans",
		Type:     "pants",
		ImageURL: "https://picsum.photos/seed/jeans/800/1000",
	},
	{
		ID:       "summer-dress",
		Name:     "Floral Summer Dress",
		Type:     "dress",
		ImageURL: "https://picsum.photos/seed/dress/800/1000",
	},
}

var sizeCharts = map[string]SizeChart{
	"uniqlo-airism": {
		GarmentType: "shirt",
		Sizes:       []string{"S", "M", "L", "XL"},
		Rows: map[string]models.Measurements{
			"S":  {"chest": 88, "waist": 72, "length": 66},
			"M":  {"chest": 96, "waist": 80, "length": 68},
			"L":  {"chest": 104, "waist": 88, "length": 70},
			"XL": {"chest": 112, "waist": 96, "length": 72},
		},
	},
	"generic-jeans": {
		GarmentType: "pants",
		Sizes:       []string{"S", "M", "L", "XL"},
		Rows: map[string]models.Measurements{
			"S":  {"waist": 76, "hip": 96, "inseam": 78},
			"M":  {"waist": 84, "hip": 104, "inseam": 80},
			"L":  {"waist": 92, "hip": 112, "inseam": 82},
			"XL": {"waist": 100, "hip": 120, "inseam": 84},
		},
	},
	"summer-dress": {
		GarmentType: "dress",
		Sizes:       []string{"S", "M", "L", "XL"},
		Rows: map[string]models.Measurements{
			"S":  {"bust": 84, "waist": 68, "hip": 92, "length": 90},
			"M":  {"bust": 92, "waist": 76, "hip": 100, "length": 92},
			"L":  {"bust": 100, "waist": 84, "hip": 108, "length": 94},
			"XL": {"bust": 108, "waist": 92, "hip": 116, "length": 96},
		},
	},
}

func Garments() []Garment {
	return garments
}

func GetGarment(garmentID string) (Garment, bool) {
	for _, g := range garments {
		if g.ID == garmentID {
			return g, true
		}
	}
	return Garment{}, false
}

func GetSizeChart(garmentID string) (SizeChart, bool) {
	chart, exists := sizeCharts[garmentID]
	return chart, exists
}
