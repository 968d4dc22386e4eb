package models

// EntityType identifies the kind of external subject under inspection.
type EntityType string

const (
	EntityFarm           EntityType = "FARM"
	EntityField          EntityType = "FIELD"
	EntityGrow           EntityType = "GROW"
	EntityInfrastructure EntityType = "INFRASTRUCTURE"
)

// Valid reports whether the entity type is a known value.
func (t EntityType) Valid() bool {
	switch t {
	case EntityFarm, EntityField, EntityGrow, EntityInfrastructure:
		return true
	default:
		return false
	}
}

// EntityReference points at the external subject of an inspection.
// Owned and resolved by the farm-entity collaborators; read-only here.
type EntityReference struct {
	EntityID   string     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	EntityName string     `json:"entity_name"`
	FarmID     *string    `json:"farm_id,omitempty"`
	FieldID    *string    `json:"field_id,omitempty"`
	LotID      *string    `json:"lot_id,omitempty"`
}

// Inspector is a lightweight identity value.
type Inspector struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CanInspect bool   `json:"can_inspect"`
}

// WorkTeam is a named roster of inspectors.
type WorkTeam struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Members []Inspector `json:"members"`
}

// HasQualifiedInspectors requires at least one member capable of inspecting.
func (t WorkTeam) HasQualifiedInspectors() bool {
	for _, m := range t.Members {
		if m.CanInspect {
			return true
		}
	}
	return false
}

// ScheduleContext is caller-supplied scheduling data bound into the
// completed record header.
type ScheduleContext struct {
	TimeOfDay string `json:"time_of_day"`
	Frequency string `json:"frequency"`
}
