// Package fare computes ride fares from distance and vehicle tier.
package fare

// BaseFare is charged on every ride regardless of distance.
const BaseFare = 50.0

const (
	TierStandard = "standard"
	TierPremium  = "premium"
	TierLuxury   = "luxury"
)

var perKmRates = map[string]float64{
	TierStandard: 15,
	TierPremium:  25,
	TierLuxury:   40,
}

// Rate returns the per-kilometre rate for a vehicle tier. Unknown or empty
// tiers fall back to the standard rate.
func Rate(vehicleType string) float64 {
	if rate, ok := perKmRates[vehicleType]; ok {
		return rate
	}
	return perKmRates[TierStandard]
}

// Estimate returns baseFare + distanceKm * rate(vehicleType). The function
// is total over any numeric distance; callers own input validation.
func Estimate(distanceKm float64, vehicleType string) float64 {
	return BaseFare + distanceKm*Rate(vehicleType)
}
