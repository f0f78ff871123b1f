package classifier

import (
	"context"
	"hash/fnv"

	"github.com/agrisight/paddy/internal/domain"
)

// MockClient is a deterministic stand-in for a real model. The same image
// bytes always map to the same table entry, which keeps demo behavior and
// tests reproducible without any network access.
type MockClient struct {
	table []domain.Diagnosis
}

func NewMockClient() *MockClient {
	return &MockClient{table: mockDiagnoses}
}

func (c *MockClient) Classify(_ context.Context, image []byte, _ string) (*domain.Diagnosis, error) {
	h := fnv.New32a()
	h.Write(image)
	d := c.table[int(h.Sum32()%uint32(len(c.table)))]
	// copy the slices so callers cannot alias the shared table
	d.Solution.Steps = append([]string(nil), d.Solution.Steps...)
	d.Symptoms = append([]string(nil), d.Symptoms...)
	return &d, nil
}

var mockDiagnoses = []domain.Diagnosis{
	{
		DiseaseName: "Rice Blast",
		Confidence:  95.2,
		Description: "A fungal disease that affects all parts of the rice plant, most visibly the leaves and panicle neck.",
		Cause:       "Caused by Magnaporthe oryzae; favored by high humidity, prolonged leaf wetness and excess nitrogen.",
		Solution: domain.Solution{
			Title: "Control Measures for Rice Blast",
			Steps: []string{
				"Use resistant varieties.",
				"Apply fungicides like Tricyclazole.",
				"Manage nitrogen application.",
			},
		},
		Symptoms: []string{"Spindle-shaped lesions", "Neck rot"},
	},
	{
		DiseaseName: "Bacterial Blight",
		Confidence:  88.9,
		Description: "A bacterial disease producing water-soaked stripes that turn yellow-white along the leaf margins.",
		Cause:       "Caused by Xanthomonas oryzae pv. oryzae; spreads rapidly in flooded, wounded fields.",
		Solution: domain.Solution{
			Title: "Managing Bacterial Blight",
			Steps: []string{
				"Ensure proper drainage.",
				"Use copper-based bactericides.",
				"Avoid field flooding.",
			},
		},
		Symptoms: []string{"Wilting of seedlings", "Yellow lesions on leaf tips"},
	},
	{
		DiseaseName: "Sheath Blight",
		Confidence:  92.1,
		Description: "A fungal disease forming oval greenish-grey lesions on the leaf sheath near the waterline.",
		Cause:       "Caused by Rhizoctonia solani; dense planting and warm humid weather favor infection.",
		Solution: domain.Solution{
			Title: "How to Control Sheath Blight",
			Steps: []string{
				"Maintain optimal plant spacing.",
				"Apply fungicides like Hexaconazole.",
				"Remove infected stubble.",
			},
		},
		Symptoms: []string{"Lesions on the sheath", "Lodging of plants"},
	},
	{
		DiseaseName: "Brown Spot",
		Confidence:  84.6,
		Description: "A fungal disease producing oval brown spots on leaves and grain discoloration.",
		Cause:       "Caused by Bipolaris oryzae; common in nutrient-poor or drought-stressed fields.",
		Solution: domain.Solution{
			Title: "Managing Brown Spot",
			Steps: []string{
				"Correct soil nutrient deficiencies.",
				"Treat seed before sowing.",
				"Apply protective fungicides when spots appear.",
			},
		},
		Symptoms: []string{"Oval, brown spots on leaves", "Reduced grain quality"},
	},
}
