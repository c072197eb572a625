package types

// ProductImage is one catalog image.
type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// ProductVariant is a purchasable configuration of a product.
type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            Money            `json:"price"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions,omitempty"`
}

// Product is a catalog read snapshot. The cart core only ever consumes the
// fields that fit into a ProductRef; the rest feed the product endpoints.
type Product struct {
	ID          string           `json:"id"`
	Handle      string           `json:"handle"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	MinPrice    Money            `json:"minPrice"`
	Images      []ProductImage   `json:"images,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

// Ref projects the product into the snapshot a cart line carries.
func (p Product) Ref() ProductRef {
	ref := ProductRef{
		ID:     p.ID,
		Handle: p.Handle,
		Title:  p.Title,
	}
	if len(p.Images) > 0 {
		ref.ImageURL = p.Images[0].URL
		ref.ImageAltText = p.Images[0].AltText
	}
	return ref
}
