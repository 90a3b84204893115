package models

const (
	LocationProvince = "province"
	LocationDistrict = "district"
	LocationWard     = "ward"
)

// Location is a node in the province > district > ward tree.
type Location struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Type     string `gorm:"size:20;not null;index" json:"type"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
}

func (Location) TableName() string {
	return "locations"
}
