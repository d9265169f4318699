package services

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat mirrors the loose numeric coercion of the web form: JSON numbers,
// numeric strings and null all parse, and anything else becomes zero instead
// of failing the request.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexFloat(v)
		return nil
	}
	var quoted string
	if err := json.Unmarshal(data, &quoted); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(quoted), 64); err == nil {
			*f = FlexFloat(v)
			return nil
		}
	}
	*f = 0
	return nil
}

// CostInputs are the raw calculation inputs as submitted by the client.
// There is deliberately no total-cost field here: the total is always
// recomputed server-side and any client-sent value is dropped.
type CostInputs struct {
	Material        string    `json:"material"`
	Product         string    `json:"product"`
	PricePerSpool   FlexFloat `json:"price_per_spool"`
	WeightGrams     FlexFloat `json:"weight_grams"`
	PrintHours      FlexFloat `json:"print_hours"`
	PrintMinutes    FlexFloat `json:"print_minutes"`
	ElectricityCost FlexFloat `json:"electricity_cost"`
	MarkupPercent   FlexFloat `json:"markup_percent"`
}

// TotalPrintHours folds the hours:minutes split into a fractional hour count.
func (in CostInputs) TotalPrintHours() float64 {
	return float64(in.PrintHours) + float64(in.PrintMinutes)/60
}

// ComputeTotalCost derives the sellable price from the raw inputs: filament
// cost (spool price is per 1000 g) plus electricity for the print duration,
// marked up by MarkupPercent. The result is stored unrounded; display and
// export boundaries round to two decimals.
func ComputeTotalCost(in CostInputs) float64 {
	filamentCost := float64(in.PricePerSpool) / 1000 * float64(in.WeightGrams)
	electricityTotal := float64(in.ElectricityCost) * in.TotalPrintHours()
	baseCost := filamentCost + electricityTotal
	return baseCost * (1 + float64(in.MarkupPercent)/100)
}
