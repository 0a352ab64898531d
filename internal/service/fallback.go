package service

import "boothorders/internal/model"

const DataSourceFallback = "Fallback"

// FallbackOrders is served whenever the sheet cannot be read or yields no
// valid rows. It covers every non-cancelled status at least once.
func FallbackOrders() []model.Order {
	return []model.Order{
		{
			ID:            "ORD-2025-001",
			BoothNumber:   "A-245",
			ExhibitorName: "TechFlow Innovations",
			Item:          "Premium Booth Setup Package",
			Description:   "Complete booth installation with premium furniture, lighting, and tech setup",
			Color:         "White",
			Quantity:      1,
			Status:        model.StatusOutForDelivery,
			OrderDate:     "June 14, 2025",
			Comments:      "Rush delivery requested",
			Section:       "Section A",
			DataSource:    DataSourceFallback,
		},
		{
			ID:            "ORD-2025-002",
			BoothNumber:   "A-245",
			ExhibitorName: "TechFlow Innovations",
			Item:          "Interactive Display System",
			Description:   `75" 4K touchscreen display with interactive software and mounting`,
			Color:         "Black",
			Quantity:      1,
			Status:        model.StatusInRoute,
			OrderDate:     "June 13, 2025",
			Section:       "Section A",
			DataSource:    DataSourceFallback,
		},
		{
			ID:            "ORD-2025-003",
			BoothNumber:   "B-156",
			ExhibitorName: "GreenWave Energy",
			Item:          "Marketing Materials Bundle",
			Description:   "Banners, brochures, business cards, and promotional items",
			Color:         "Green",
			Quantity:      5,
			Status:        model.StatusDelivered,
			OrderDate:     "June 12, 2025",
			Comments:      "Eco-friendly materials requested",
			Section:       "Section B",
			DataSource:    DataSourceFallback,
		},
		{
			ID:            "ORD-2025-004",
			BoothNumber:   "C-089",
			ExhibitorName: "SmartHealth Corp",
			Item:          "Audio-Visual Equipment",
			Description:   "Professional sound system, microphones, and presentation equipment",
			Color:         "White",
			Quantity:      1,
			Status:        model.StatusInProcess,
			OrderDate:     "June 14, 2025",
			Comments:      "Medical grade equipment required",
			Section:       "Section C",
			DataSource:    DataSourceFallback,
		},
	}
}
