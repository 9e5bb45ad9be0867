package config

// PricingConfig carries the tariff defaults used when no external settings
// provider is wired in. Values are read at price-computation time, so a
// provider refresh takes effect on the next estimate.
type PricingConfig struct {
	BasePrice              float64 `yaml:"base_price"`
	PricePerKm             float64 `yaml:"price_per_km"`
	BikeBasePrice          float64 `yaml:"bike_base_price"`
	BikePricePerKm         float64 `yaml:"bike_price_per_km"`
	BikeMaxDistanceKM      float64 `yaml:"bike_max_distance_km"`
	DeliveryMotoBasePrice  float64 `yaml:"delivery_moto_base_price"`
	DeliveryMotoPricePerKm float64 `yaml:"delivery_moto_price_per_km"`
}

func loadPricingConfig() *PricingConfig {
	return &PricingConfig{
		BasePrice:              getEnvAsFloat64("PRICING_BASE_PRICE", 5.00),
		PricePerKm:             getEnvAsFloat64("PRICING_PRICE_PER_KM", 2.00),
		BikeBasePrice:          getEnvAsFloat64("PRICING_BIKE_BASE_PRICE", 4.00),
		BikePricePerKm:         getEnvAsFloat64("PRICING_BIKE_PRICE_PER_KM", 1.50),
		BikeMaxDistanceKM:      getEnvAsFloat64("PRICING_BIKE_MAX_DISTANCE_KM", 8.0),
		DeliveryMotoBasePrice:  getEnvAsFloat64("PRICING_DELIVERY_MOTO_BASE_PRICE", 6.00),
		DeliveryMotoPricePerKm: getEnvAsFloat64("PRICING_DELIVERY_MOTO_PRICE_PER_KM", 2.20),
	}
}
