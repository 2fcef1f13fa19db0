package domain

import (
	"encoding/json"

	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
)

// Image is a labeled media reference owned by a Product.
type Image struct {
	Type      string
	Extension string
	URL       string
}

// Inventory is the stock record of a product at one merchant location.
type Inventory struct {
	ID                 int64
	MerchantLocationID string
	ProductID          string
	AvailableQuantity  int64
	ReservedQuantity   *int64
	Status             *string
}

// MerchantProduct is the merchant-specific overlay of a catalog product.
type MerchantProduct struct {
	ID                          int64
	ExternalID                  string
	ProductID                   string
	Currency                    string
	SKUID                       string
	Active                      bool
	CostPrice                   float64
	MerchantID                  string
	MerchantLocationID          string
	RecommendedMerchantPrice    *float64
	Product                     any
	UOMPriceConversionAttribute any
}

// Product represents a catalog item as returned by the Medisend API.
type Product struct {
	ID                       int64
	CreatedAt                int64
	ExternalID               string
	ProductID                *string
	EntityID                 *string
	Name                     string
	MetaDescription          string
	MetaKeywords             string
	Type                     string
	BasePrice                float64
	Currency                 string
	ThumbnailURL             string
	ImageURL                 string
	Status                   string
	Display                  bool
	RecommendedMerchantPrice *string
	UOM                      string
	VisualCues               []string
	Images                   []Image
	Inventory                Inventory
	MerchantProduct          MerchantProduct
	MaxAllowablePrice        float64
	MinAllowablePrice        float64
}

// ImageFromMap builds an Image from its wire representation.
func ImageFromMap(m map[string]any) (Image, error) {
	var (
		img Image
		err error
	)
	if img.Type, err = getString(m, "type"); err != nil {
		return Image{}, err
	}
	if img.Extension, err = getString(m, "extension"); err != nil {
		return Image{}, err
	}
	if img.URL, err = getString(m, "url"); err != nil {
		return Image{}, err
	}
	return img, nil
}

// ToMap returns the wire representation of the image.
func (img Image) ToMap() map[string]any {
	return map[string]any{
		"type":      img.Type,
		"extension": img.Extension,
		"url":       img.URL,
	}
}

// InventoryFromMap builds an Inventory from its wire representation.
func InventoryFromMap(m map[string]any) (Inventory, error) {
	var (
		inv Inventory
		err error
	)
	if inv.ID, err = getInt(m, "id"); err != nil {
		return Inventory{}, err
	}
	if inv.MerchantLocationID, err = getString(m, "merchant_location_id"); err != nil {
		return Inventory{}, err
	}
	if inv.ProductID, err = getString(m, "product_id"); err != nil {
		return Inventory{}, err
	}
	if inv.AvailableQuantity, err = getInt(m, "available_quantity"); err != nil {
		return Inventory{}, err
	}
	if inv.ReservedQuantity, err = getOptInt(m, "reserved_quantity"); err != nil {
		return Inventory{}, err
	}
	if inv.Status, err = getOptString(m, "status"); err != nil {
		return Inventory{}, err
	}
	return inv, nil
}

// ToMap returns the wire representation of the inventory.
func (inv Inventory) ToMap() map[string]any {
	return map[string]any{
		"id":                   inv.ID,
		"merchant_location_id": inv.MerchantLocationID,
		"product_id":           inv.ProductID,
		"available_quantity":   inv.AvailableQuantity,
		"reserved_quantity":    optInt(inv.ReservedQuantity),
		"status":               optString(inv.Status),
	}
}

// MerchantProductFromMap builds a MerchantProduct from its wire representation.
// The free-form product and uom_price_conversion_attribute values are kept as-is.
func MerchantProductFromMap(m map[string]any) (MerchantProduct, error) {
	var (
		mp  MerchantProduct
		err error
	)
	if mp.ID, err = getInt(m, "id"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.ExternalID, err = getString(m, "external_id"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.ProductID, err = getString(m, "product_id"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.Currency, err = getString(m, "currency"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.SKUID, err = getString(m, "sku_id"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.Active, err = getBool(m, "active"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.CostPrice, err = getFloat(m, "cost_price"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.MerchantID, err = getString(m, "merchant_id"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.MerchantLocationID, err = getString(m, "merchant_location_id"); err != nil {
		return MerchantProduct{}, err
	}
	if mp.RecommendedMerchantPrice, err = getOptFloat(m, "recommended_merchant_price"); err != nil {
		return MerchantProduct{}, err
	}
	mp.Product = m["product"]
	mp.UOMPriceConversionAttribute = m["uom_price_conversion_attribute"]
	return mp, nil
}

// ToMap returns the wire representation of the merchant product.
func (mp MerchantProduct) ToMap() map[string]any {
	return map[string]any{
		"id":                             mp.ID,
		"external_id":                    mp.ExternalID,
		"product_id":                     mp.ProductID,
		"currency":                       mp.Currency,
		"sku_id":                         mp.SKUID,
		"active":                         mp.Active,
		"cost_price":                     mp.CostPrice,
		"merchant_id":                    mp.MerchantID,
		"merchant_location_id":           mp.MerchantLocationID,
		"recommended_merchant_price":     optFloat(mp.RecommendedMerchantPrice),
		"product":                        mp.Product,
		"uom_price_conversion_attribute": mp.UOMPriceConversionAttribute,
	}
}

// ProductFromMap builds a Product from its wire representation, converting the
// nested images, inventory and merchant_product records. Every non-optional key
// must be present.
func ProductFromMap(m map[string]any) (Product, error) {
	var (
		p   Product
		err error
	)
	if p.ID, err = getInt(m, "id"); err != nil {
		return Product{}, err
	}
	if p.CreatedAt, err = getInt(m, "created_at"); err != nil {
		return Product{}, err
	}
	if p.ExternalID, err = getString(m, "external_id"); err != nil {
		return Product{}, err
	}
	if p.ProductID, err = getOptString(m, "product_id"); err != nil {
		return Product{}, err
	}
	if p.EntityID, err = getOptString(m, "entity_id"); err != nil {
		return Product{}, err
	}
	if p.Name, err = getString(m, "name"); err != nil {
		return Product{}, err
	}
	if p.MetaDescription, err = getString(m, "meta_description"); err != nil {
		return Product{}, err
	}
	if p.MetaKeywords, err = getString(m, "meta_keywords"); err != nil {
		return Product{}, err
	}
	if p.Type, err = getString(m, "type"); err != nil {
		return Product{}, err
	}
	if p.BasePrice, err = getFloat(m, "base_price"); err != nil {
		return Product{}, err
	}
	if p.Currency, err = getString(m, "currency"); err != nil {
		return Product{}, err
	}
	if p.ThumbnailURL, err = getString(m, "thumbnail_url"); err != nil {
		return Product{}, err
	}
	if p.ImageURL, err = getString(m, "image_url"); err != nil {
		return Product{}, err
	}
	if p.Status, err = getString(m, "status"); err != nil {
		return Product{}, err
	}
	if p.Display, err = getBool(m, "display"); err != nil {
		return Product{}, err
	}
	if p.RecommendedMerchantPrice, err = getOptString(m, "recommended_merchant_price"); err != nil {
		return Product{}, err
	}
	if p.UOM, err = getString(m, "uom"); err != nil {
		return Product{}, err
	}
	if p.VisualCues, err = getStrings(m, "visual_cues"); err != nil {
		return Product{}, err
	}
	if p.Images, err = getRecords(m, "images", ImageFromMap); err != nil {
		return Product{}, err
	}

	invTree, err := getObject(m, "inventory")
	if err != nil {
		return Product{}, err
	}
	if p.Inventory, err = InventoryFromMap(invTree); err != nil {
		return Product{}, apperrors.Nest(err, "inventory")
	}

	mpTree, err := getObject(m, "merchant_product")
	if err != nil {
		return Product{}, err
	}
	if p.MerchantProduct, err = MerchantProductFromMap(mpTree); err != nil {
		return Product{}, apperrors.Nest(err, "merchant_product")
	}

	if p.MaxAllowablePrice, err = getFloat(m, "max_allowable_price"); err != nil {
		return Product{}, err
	}
	if p.MinAllowablePrice, err = getFloat(m, "min_allowable_price"); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ToMap returns the wire representation of the product with nested records
// expanded to their own maps.
func (p Product) ToMap() map[string]any {
	var visualCues []any
	if p.VisualCues != nil {
		visualCues = make([]any, len(p.VisualCues))
		for i, cue := range p.VisualCues {
			visualCues[i] = cue
		}
	}

	var images []any
	if p.Images != nil {
		images = make([]any, len(p.Images))
		for i, img := range p.Images {
			images[i] = img.ToMap()
		}
	}

	return map[string]any{
		"id":                         p.ID,
		"created_at":                 p.CreatedAt,
		"external_id":                p.ExternalID,
		"product_id":                 optString(p.ProductID),
		"entity_id":                  optString(p.EntityID),
		"name":                       p.Name,
		"meta_description":           p.MetaDescription,
		"meta_keywords":              p.MetaKeywords,
		"type":                       p.Type,
		"base_price":                 p.BasePrice,
		"currency":                   p.Currency,
		"thumbnail_url":              p.ThumbnailURL,
		"image_url":                  p.ImageURL,
		"status":                     p.Status,
		"display":                    p.Display,
		"recommended_merchant_price": optString(p.RecommendedMerchantPrice),
		"uom":                        p.UOM,
		"visual_cues":                visualCues,
		"images":                     images,
		"inventory":                  p.Inventory.ToMap(),
		"merchant_product":           p.MerchantProduct.ToMap(),
		"max_allowable_price":        p.MaxAllowablePrice,
		"min_allowable_price":        p.MinAllowablePrice,
	}
}

// IsUnavailable reports whether the product cannot currently be sold: its
// merchant listing is inactive or it has no available stock.
func (p Product) IsUnavailable() bool {
	return !p.MerchantProduct.Active || p.Inventory.AvailableQuantity == 0
}

// FilterUnavailable returns the unavailable products, preserving order.
func FilterUnavailable(products []Product) []Product {
	var out []Product
	for _, p := range products {
		if p.IsUnavailable() {
			out = append(out, p)
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (img Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(img.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (img *Image) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, img, ImageFromMap)
}

// MarshalJSON implements json.Marshaler.
func (inv Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inv.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, inv, InventoryFromMap)
}

// MarshalJSON implements json.Marshaler.
func (mp MerchantProduct) MarshalJSON() ([]byte, error) {
	return json.Marshal(mp.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (mp *MerchantProduct) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, mp, MerchantProductFromMap)
}

// MarshalJSON implements json.Marshaler.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Product) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, p, ProductFromMap)
}

func unmarshalRecord[T any](data []byte, dst *T, conv func(map[string]any) (T, error)) error {
	tree, err := decodeTreeBytes(data)
	if err != nil {
		return err
	}
	rec, err := conv(tree)
	if err != nil {
		return err
	}
	*dst = rec
	return nil
}
