package models

// Category is a competition track a team registers in (business plan, business case)
type Category struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"type:varchar(100);unique;not null" json:"name"`
	Slug  string  `gorm:"type:varchar(50);unique;not null" json:"slug"`
	Teams []*Team `gorm:"foreignKey:CategoryID" json:"-"`
}
