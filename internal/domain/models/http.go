package models

// PredictRequest triggers an on-demand prediction fetch.
type PredictRequest struct {
	Symbol string `json:"symbol" validate:"required,min=1,max=16"`
}

// NewsCategoryRequest switches the active news category.
type NewsCategoryRequest struct {
	Category string `json:"category" default:"all" validate:"required,oneof=all crypto stocks gold"`
}

// TabRequest switches the active dashboard tab.
type TabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=analysis news"`
}

// SymbolRequest updates the pending symbol input without fetching.
type SymbolRequest struct {
	Symbol string `json:"symbol" validate:"required,min=1,max=16"`
}
