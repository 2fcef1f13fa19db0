package medisendtest

import (
	"fmt"

	"github.com/turfaa/halodoc-medisend-api/domain"
)

// Product builds a complete catalog product. active and available drive
// Product.IsUnavailable.
func Product(id int64, name string, active bool, available int64) domain.Product {
	productID := fmt.Sprintf("prd-%d", id)
	return domain.Product{
		ID:              id,
		CreatedAt:       1700000000000 + id,
		ExternalID:      fmt.Sprintf("EXT-%d", id),
		ProductID:       &productID,
		Name:            name,
		MetaDescription: name,
		Type:            "medicine",
		BasePrice:       10000,
		Currency:        "IDR",
		ThumbnailURL:    fmt.Sprintf("https://cdn.example.com/p/%d-thumb.jpg", id),
		ImageURL:        fmt.Sprintf("https://cdn.example.com/p/%d.jpg", id),
		Status:          "active",
		Display:         true,
		UOM:             "strip",
		VisualCues:      []string{},
		Images: []domain.Image{
			{Type: "primary", Extension: "jpg", URL: fmt.Sprintf("https://cdn.example.com/p/%d.jpg", id)},
		},
		Inventory: domain.Inventory{
			ID:                 id * 10,
			MerchantLocationID: "loc-1",
			ProductID:          productID,
			AvailableQuantity:  available,
		},
		MerchantProduct: domain.MerchantProduct{
			ID:                 id * 100,
			ExternalID:         fmt.Sprintf("MP-%d", id),
			ProductID:          productID,
			Currency:           "IDR",
			SKUID:              fmt.Sprintf("SKU-%d", id),
			Active:             active,
			CostPrice:          8500.5,
			MerchantID:         "mer-1",
			MerchantLocationID: "loc-1",
		},
		MaxAllowablePrice: 12000,
		MinAllowablePrice: 9000,
	}
}

// Catalog builds n products named "Product <i>" with ids 1..n. Every third
// product is inactive and every fifth is out of stock.
func Catalog(n int) []domain.Product {
	products := make([]domain.Product, n)
	for i := range products {
		id := int64(i + 1)
		products[i] = Product(id, fmt.Sprintf("Product %d", id), id%3 != 0, available(id))
	}
	return products
}

func available(id int64) int64 {
	if id%5 == 0 {
		return 0
	}
	return id
}
