package service

import (
	"fmt"
	"strings"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

type seedItem struct {
	priority    models.Priority
	description string
}

type seedSection struct {
	title string
	items []seedItem
}

type seedTemplate struct {
	name             string
	category         models.TemplateCategory
	version          string
	inspectionType   string
	requirementLevel string
	variables        []string
	sections         []seedSection
}

// renderSeedTemplate produces the canonical template markdown. Seed
// content goes through this single writer so the catalog parser and the
// on-disk format cannot drift apart.
func renderSeedTemplate(t seedTemplate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", strings.ReplaceAll(t.name, "_", " "))
	fmt.Fprintf(&b, "**Template Version:** %s\n", t.version)
	fmt.Fprintf(&b, "**Category:** %s\n", categoryLabel(t.category))
	fmt.Fprintf(&b, "**Inspection Type:** %s\n", t.inspectionType)
	fmt.Fprintf(&b, "**Requirement Level:** %s\n\n", t.requirementLevel)

	b.WriteString(models.MarkerVariables + "\n")
	for _, v := range t.variables {
		fmt.Fprintf(&b, "- `{{%s}}` - %s\n", v, strings.ReplaceAll(v, "_", " "))
	}
	b.WriteString("\n")

	total := 0
	critical := 0
	for si, section := range t.sections {
		fmt.Fprintf(&b, "## Section %d: %s\n", si+1, section.title)
		for ii, item := range section.items {
			fmt.Fprintf(&b, "### %d.%d %s\n", si+1, ii+1, item.description)
			fmt.Fprintf(&b, "- [ ] **[%s]** %s\n", item.priority, item.description)
			b.WriteString("  - **Notes:** ________\n")
			b.WriteString("  - **Completed:** [ ] **Time:** ________ **Inspector:** ________\n")
			total++
			if item.priority == models.PriorityCritical {
				critical++
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(models.MarkerSummary + "\n")
	fmt.Fprintf(&b, "**Total Items:** %d  **Critical Items:** %d\n", total, critical)
	b.WriteString("**Inspector Signature:** ________  **Date:** ________\n")

	return b.String()
}

func categoryLabel(c models.TemplateCategory) string {
	words := strings.Split(strings.ToLower(string(c)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// seedTemplates returns the ten built-in farm inspection templates
// installed on first startup.
func seedTemplates() []seedTemplate {
	return []seedTemplate{
		{
			name:             "Soil_Fertility_Management",
			category:         models.CategorySoilHealth,
			version:          "1.2.0",
			inspectionType:   "Routine",
			requirementLevel: "Organic certification baseline",
			variables:        []string{"farm_name", "field_name", "inspector_name"},
			sections: []seedSection{
				{title: "Soil Testing", items: []seedItem{
					{models.PriorityCritical, "Soil test results on file and less than 12 months old"},
					{models.PriorityHigh, "pH within target range for planned crops"},
					{models.PriorityMedium, "Organic matter trend recorded"},
				}},
				{title: "Amendments", items: []seedItem{
					{models.PriorityCritical, "All applied amendments appear on the approved inputs list"},
					{models.PriorityHigh, "Application rates match agronomist recommendation"},
					{models.PriorityLow, "Amendment storage area clean and labeled"},
				}},
			},
		},
		{
			name:             "Irrigation_System_Check",
			category:         models.CategoryWaterSystems,
			version:          "1.0.1",
			inspectionType:   "Routine",
			requirementLevel: "Operational",
			variables:        []string{"farm_name", "zone_name", "inspector_name"},
			sections: []seedSection{
				{title: "Distribution", items: []seedItem{
					{models.PriorityCritical, "No visible leaks at mains, valves, or manifolds"},
					{models.PriorityHigh, "Emitter flow uniform across sampled rows"},
					{models.PriorityMedium, "Filters cleaned and back-flush functioning"},
				}},
				{title: "Controls", items: []seedItem{
					{models.PriorityHigh, "Controller schedule matches crop water plan"},
					{models.PriorityLow, "Rain shutoff sensor operational"},
				}},
			},
		},
		{
			name:             "Water_Quality_Sampling",
			category:         models.CategoryWaterSystems,
			version:          "1.1.0",
			inspectionType:   "Compliance",
			requirementLevel: "Food safety plan requirement",
			variables:        []string{"farm_name", "source_name", "inspector_name"},
			sections: []seedSection{
				{title: "Sampling", items: []seedItem{
					{models.PriorityCritical, "Samples drawn from each active water source"},
					{models.PriorityCritical, "Generic E. coli results within acceptance criteria"},
					{models.PriorityMedium, "Chain of custody forms completed"},
				}},
			},
		},
		{
			name:             "Equipment_Safety",
			category:         models.CategoryEquipment,
			version:          "2.0.0",
			inspectionType:   "Safety",
			requirementLevel: "Mandatory before seasonal use",
			variables:        []string{"farm_name", "equipment_id", "inspector_name"},
			sections: []seedSection{
				{title: "Guards and Shields", items: []seedItem{
					{models.PriorityCritical, "PTO shields present and rotating freely"},
					{models.PriorityCritical, "All belt and chain guards fastened"},
					{models.PriorityHigh, "Operator presence interlocks tested"},
				}},
				{title: "Condition", items: []seedItem{
					{models.PriorityMedium, "Hydraulic hoses free of abrasion and seepage"},
					{models.PriorityLow, "Lights and SMV emblem clean and visible"},
				}},
			},
		},
		{
			name:             "Crop_Disease_Scouting",
			category:         models.CategoryCropHealth,
			version:          "1.0.0",
			inspectionType:   "Routine",
			requirementLevel: "IPM program",
			variables:        []string{"farm_name", "field_name", "crop_name", "inspector_name"},
			sections: []seedSection{
				{title: "Scouting", items: []seedItem{
					{models.PriorityHigh, "Representative transect walked in each block"},
					{models.PriorityCritical, "Suspected quarantine pests reported same day"},
					{models.PriorityMedium, "Disease incidence recorded against thresholds"},
					{models.PriorityLow, "Photos attached for unusual symptoms"},
				}},
			},
		},
		{
			name:             "Fence_And_Gate_Integrity",
			category:         models.CategoryInfrastructure,
			version:          "1.0.2",
			inspectionType:   "Routine",
			requirementLevel: "Operational",
			variables:        []string{"farm_name", "perimeter_name", "inspector_name"},
			sections: []seedSection{
				{title: "Perimeter", items: []seedItem{
					{models.PriorityHigh, "No breaks, sagging wire, or leaning posts"},
					{models.PriorityCritical, "Livestock containment verified on shared boundaries"},
					{models.PriorityLow, "Vegetation cleared from electric fence lines"},
				}},
				{title: "Gates", items: []seedItem{
					{models.PriorityMedium, "Latches close and lock correctly"},
					{models.PriorityLow, "Hinges greased and swing freely"},
				}},
			},
		},
		{
			name:             "Organic_Compliance_Review",
			category:         models.CategoryCompliance,
			version:          "3.1.0",
			inspectionType:   "Compliance",
			requirementLevel: "Certifier annual review",
			variables:        []string{"farm_name", "certifier_name", "inspector_name"},
			sections: []seedSection{
				{title: "Records", items: []seedItem{
					{models.PriorityCritical, "Input purchase records complete for the review period"},
					{models.PriorityCritical, "Buffer zones documented for adjoining conventional land"},
					{models.PriorityHigh, "Harvest and sales records reconcile"},
					{models.PriorityMedium, "Seed source declarations on file"},
				}},
			},
		},
		{
			name:             "Livestock_Housing",
			category:         models.CategoryLivestock,
			version:          "1.0.0",
			inspectionType:   "Welfare",
			requirementLevel: "Welfare standard",
			variables:        []string{"farm_name", "barn_name", "inspector_name"},
			sections: []seedSection{
				{title: "Environment", items: []seedItem{
					{models.PriorityCritical, "Clean water available in every pen"},
					{models.PriorityHigh, "Ventilation adequate, no ammonia odor at animal height"},
					{models.PriorityMedium, "Bedding dry and replenished"},
				}},
				{title: "Condition", items: []seedItem{
					{models.PriorityHigh, "No injurious protrusions or broken penning"},
					{models.PriorityLow, "Feed storage sealed against rodents"},
				}},
			},
		},
		{
			name:             "Harvest_Food_Safety",
			category:         models.CategoryCompliance,
			version:          "2.2.0",
			inspectionType:   "Pre-harvest",
			requirementLevel: "Food safety plan requirement",
			variables:        []string{"farm_name", "field_name", "crop_name", "inspector_name"},
			sections: []seedSection{
				{title: "Pre-Harvest", items: []seedItem{
					{models.PriorityCritical, "No evidence of animal intrusion in the harvest block"},
					{models.PriorityCritical, "Harvest crew hygiene training current"},
					{models.PriorityHigh, "Picking containers cleaned and sanitized"},
					{models.PriorityMedium, "Hand-wash stations stocked and accessible"},
				}},
			},
		},
		{
			name:             "Greenhouse_Environment",
			category:         models.CategoryInfrastructure,
			version:          "1.3.0",
			inspectionType:   "Routine",
			requirementLevel: "Operational",
			variables:        []string{"farm_name", "house_name", "inspector_name"},
			sections: []seedSection{
				{title: "Climate", items: []seedItem{
					{models.PriorityHigh, "Temperature and humidity within setpoint bands"},
					{models.PriorityMedium, "Vents and shade systems cycling correctly"},
					{models.PriorityLow, "Sensor calibration date recorded"},
				}},
				{title: "Structure", items: []seedItem{
					{models.PriorityMedium, "Glazing intact, no torn poly panels"},
					{models.PriorityCritical, "Heater exhaust venting outside the house"},
				}},
			},
		},
	}
}
