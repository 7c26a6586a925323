// Package domain defines the core types shared across the content engine.
package domain

// RawRecord is one storage row as returned by the content table. Deployments
// differ in which columns exist and whether values use camelCase or
// snake_case names, so rows are carried as a loose map until the normalizer
// shapes them.
type RawRecord map[string]any

// ContentRecord is the canonical record produced by the resolution engine.
// Prices are carried as strings because the content table stores them
// free-form (numeric or display text such as "1,299").
type ContentRecord struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         string  `json:"price,omitempty"`
	OriginalPrice string  `json:"originalPrice,omitempty"`
	Currency      string  `json:"currency"`
	ImageURL      string  `json:"imageUrl"`
	AffiliateURL  string  `json:"affiliateUrl,omitempty"`
	Category      string  `json:"category,omitempty"`
	Subcategory   string  `json:"subcategory,omitempty"`
	Gender        string  `json:"gender,omitempty"`
	Rating        float64 `json:"rating"`
	ReviewCount   int64   `json:"reviewCount"`
	Discount      string  `json:"discount,omitempty"`
	IsNew         bool    `json:"isNew"`
	IsFeatured    bool    `json:"isFeatured"`
	IsService     bool    `json:"isService,omitempty"`
	IsAIApp       bool    `json:"isAIApp,omitempty"`
	CreatedAt     string  `json:"createdAt"`

	// Timer fields. HasTimer is true only when both a positive duration and
	// a start time could be established.
	HasTimer       bool    `json:"hasTimer"`
	TimerDuration  *int64  `json:"timerDuration"`
	TimerStartTime *string `json:"timerStartTime"`

	// Extended pricing fields used by service and app cards.
	PricingType      string `json:"pricingType,omitempty"`
	MonthlyPrice     string `json:"monthlyPrice,omitempty"`
	YearlyPrice      string `json:"yearlyPrice,omitempty"`
	IsFree           *bool  `json:"isFree,omitempty"`
	PriceDescription string `json:"priceDescription,omitempty"`
}
