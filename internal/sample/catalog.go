// Package sample ships a small built-in catalog for demos and local
// development. Loading it is an administrative operation, not part of the
// normal indexing path.
package sample

import "github.com/sanavullashaik/salesFlow/internal/domain"

// Products returns the built-in sample catalog. IDs are stable so repeated
// loads overwrite rather than duplicate.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:          "sample-iphone-14",
			Name:        "iPhone 14",
			Description: "Apple smartphone with A15 Bionic chip and dual camera system",
			Category:    "phones",
			Price:       799.0,
			Stock:       25,
			Brand:       "Apple",
			Rating:      4.7,
			ReviewsCount: 2341,
			Specifications: map[string]string{
				"display": "6.1 inch OLED",
				"storage": "128GB",
				"chip":    "A15 Bionic",
			},
		},
		{
			ID:          "sample-iphone-14-pro",
			Name:        "iPhone 14 Pro",
			Description: "Apple flagship smartphone with Dynamic Island and 48MP camera",
			Category:    "phones",
			Price:       999.0,
			Stock:       14,
			Brand:       "Apple",
			Rating:      4.8,
			ReviewsCount: 1892,
			Specifications: map[string]string{
				"display": "6.1 inch ProMotion OLED",
				"storage": "256GB",
				"chip":    "A16 Bionic",
			},
		},
		{
			ID:          "sample-galaxy-s23",
			Name:        "Galaxy S23",
			Description: "Samsung flagship smartphone with Snapdragon 8 Gen 2",
			Category:    "phones",
			Price:       899.0,
			Stock:       31,
			Brand:       "Samsung",
			Rating:      4.6,
			ReviewsCount: 1204,
			Specifications: map[string]string{
				"display": "6.1 inch AMOLED",
				"storage": "256GB",
			},
		},
		{
			ID:          "sample-thinkpad-x1",
			Name:        "ThinkPad X1 Carbon",
			Description: "Lenovo business ultrabook with 14 inch display and Intel Core i7",
			Category:    "laptops",
			Price:       1649.0,
			Stock:       9,
			Brand:       "Lenovo",
			Rating:      4.5,
			ReviewsCount: 687,
			Specifications: map[string]string{
				"cpu":     "Intel Core i7-1365U",
				"ram":     "16GB",
				"storage": "512GB SSD",
				"weight":  "1.12kg",
			},
		},
		{
			ID:          "sample-latitude-5440",
			Name:        "Latitude 5440",
			Description: "Dell business laptop built for fleet deployments",
			Category:    "laptops",
			Price:       1189.0,
			Stock:       42,
			Brand:       "Dell",
			Rating:      4.2,
			ReviewsCount: 318,
			Specifications: map[string]string{
				"cpu":     "Intel Core i5-1345U",
				"ram":     "16GB",
				"storage": "512GB SSD",
			},
		},
		{
			ID:          "sample-macbook-air-m2",
			Name:        "MacBook Air M2",
			Description: "Apple thin and light laptop with M2 chip and fanless design",
			Category:    "laptops",
			Price:       1199.0,
			Stock:       18,
			Brand:       "Apple",
			Rating:      4.8,
			ReviewsCount: 2950,
			Specifications: map[string]string{
				"chip":    "Apple M2",
				"ram":     "16GB",
				"storage": "256GB SSD",
			},
		},
		{
			ID:          "sample-ultrasharp-27",
			Name:        "UltraSharp 27 Monitor",
			Description: "Dell 27 inch 4K USB-C monitor for office workstations",
			Category:    "monitors",
			Price:       549.0,
			Stock:       53,
			Brand:       "Dell",
			Rating:      4.6,
			ReviewsCount: 841,
			Specifications: map[string]string{
				"resolution": "3840x2160",
				"size":       "27 inch",
				"panel":      "IPS",
			},
		},
		{
			ID:          "sample-mx-master-3s",
			Name:        "MX Master 3S",
			Description: "Logitech wireless ergonomic mouse with quiet clicks",
			Category:    "accessories",
			Price:       99.0,
			Stock:       120,
			Brand:       "Logitech",
			Rating:      4.8,
			ReviewsCount: 5120,
			Specifications: map[string]string{
				"connection": "Bluetooth / USB receiver",
				"dpi":        "8000",
			},
		},
		{
			ID:          "sample-airpods-pro-2",
			Name:        "AirPods Pro 2",
			Description: "Apple wireless earbuds with active noise cancellation",
			Category:    "audio",
			Price:       249.0,
			Stock:       64,
			Brand:       "Apple",
			Rating:      4.7,
			ReviewsCount: 8304,
			Specifications: map[string]string{
				"anc":     "yes",
				"battery": "6h (30h with case)",
			},
		},
		{
			ID:          "sample-wh-1000xm5",
			Name:        "WH-1000XM5",
			Description: "Sony over-ear noise cancelling headphones",
			Category:    "audio",
			Price:       399.0,
			Stock:       27,
			Brand:       "Sony",
			Rating:      4.7,
			ReviewsCount: 3466,
			Specifications: map[string]string{
				"battery": "30h",
				"weight":  "250g",
			},
		},
	}
}
