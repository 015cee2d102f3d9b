package models

// Product is something sold through the payment flow. A product linked to
// a training grants enrollment once paid.
type Product struct {
	Base
	Name        string  `json:"name" gorm:"size:255;not null;index"`
	Slug        string  `json:"slug" gorm:"size:300;uniqueIndex"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Currency    string  `json:"currency" gorm:"type:varchar(3);not null;default:'BRL'"`
	TrainingID  *uint   `json:"training_id,omitempty" gorm:"index"`
	Active      bool    `json:"active" gorm:"default:true"`
	SoftDelete
}
