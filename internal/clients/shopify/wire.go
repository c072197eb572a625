package shopify

import (
	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

// Storefront responses wrap every list in {edges:[{node:...}]}. These wire
// shapes exist only inside this package; normalization flattens them before
// anything crosses into the store.

type moneyWire struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m moneyWire) normalize() types.Money {
	return types.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

type imageWire struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type imageEdgeWire struct {
	Node imageWire `json:"node"`
}

type imageConnectionWire struct {
	Edges []imageEdgeWire `json:"edges"`
}

type selectedOptionWire struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type lineProductWire struct {
	ID     string              `json:"id"`
	Handle string              `json:"handle"`
	Title  string              `json:"title"`
	Images imageConnectionWire `json:"images"`
}

type merchandiseWire struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Price           moneyWire            `json:"price"`
	SelectedOptions []selectedOptionWire `json:"selectedOptions"`
	Product         lineProductWire      `json:"product"`
}

type cartLineWire struct {
	ID          string          `json:"id"`
	Quantity    int             `json:"quantity"`
	Merchandise merchandiseWire `json:"merchandise"`
}

type cartLineEdgeWire struct {
	Node cartLineWire `json:"node"`
}

type cartLineConnectionWire struct {
	Edges []cartLineEdgeWire `json:"edges"`
}

type cartWire struct {
	ID          string                 `json:"id"`
	CheckoutURL string                 `json:"checkoutUrl"`
	Lines       cartLineConnectionWire `json:"lines"`
}

type userErrorWire struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

func (w cartWire) normalize() *types.CartSnapshot {
	snap := &types.CartSnapshot{
		ID:          w.ID,
		CheckoutURL: w.CheckoutURL,
		Lines:       make([]types.CartLine, 0, len(w.Lines.Edges)),
	}
	for _, edge := range w.Lines.Edges {
		node := edge.Node
		line := types.CartLine{
			VariantID:    node.Merchandise.ID,
			VariantTitle: node.Merchandise.Title,
			Price:        node.Merchandise.Price.normalize(),
			Quantity:     node.Quantity,
			Product: types.ProductRef{
				ID:     node.Merchandise.Product.ID,
				Handle: node.Merchandise.Product.Handle,
				Title:  node.Merchandise.Product.Title,
			},
		}
		if imgs := node.Merchandise.Product.Images.Edges; len(imgs) > 0 {
			line.Product.ImageURL = imgs[0].Node.URL
			line.Product.ImageAltText = imgs[0].Node.AltText
		}
		for _, opt := range node.Merchandise.SelectedOptions {
			line.SelectedOptions = append(line.SelectedOptions, types.SelectedOption{
				Name:  opt.Name,
				Value: opt.Value,
			})
		}
		snap.Lines = append(snap.Lines, line)
	}
	return snap
}

type productVariantWire struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	AvailableForSale bool                 `json:"availableForSale"`
	Price            moneyWire            `json:"price"`
	SelectedOptions  []selectedOptionWire `json:"selectedOptions"`
}

type productVariantEdgeWire struct {
	Node productVariantWire `json:"node"`
}

type productWire struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceRange  struct {
		MinVariantPrice moneyWire `json:"minVariantPrice"`
	} `json:"priceRange"`
	Images   imageConnectionWire `json:"images"`
	Variants struct {
		Edges []productVariantEdgeWire `json:"edges"`
	} `json:"variants"`
}

func (w productWire) normalize() types.Product {
	p := types.Product{
		ID:          w.ID,
		Handle:      w.Handle,
		Title:       w.Title,
		Description: w.Description,
		MinPrice:    w.PriceRange.MinVariantPrice.normalize(),
	}
	for _, edge := range w.Images.Edges {
		p.Images = append(p.Images, types.ProductImage{URL: edge.Node.URL, AltText: edge.Node.AltText})
	}
	for _, edge := range w.Variants.Edges {
		node := edge.Node
		variant := types.ProductVariant{
			ID:               node.ID,
			Title:            node.Title,
			Price:            node.Price.normalize(),
			AvailableForSale: node.AvailableForSale,
		}
		for _, opt := range node.SelectedOptions {
			variant.SelectedOptions = append(variant.SelectedOptions, types.SelectedOption{
				Name:  opt.Name,
				Value: opt.Value,
			})
		}
		p.Variants = append(p.Variants, variant)
	}
	return p
}
