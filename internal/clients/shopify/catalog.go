package shopify

import (
	"context"

	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

const productFieldsFragment = `
  id
  handle
  title
  description
  priceRange { minVariantPrice { amount currencyCode } }
  images(first: 10) { edges { node { url altText } } }
  variants(first: 25) {
    edges {
      node {
        id
        title
        availableForSale
        price { amount currencyCode }
        selectedOptions { name value }
      }
    }
  }`

var (
	productsQuery = `query products($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    edges {
      node {` + productFieldsFragment + `
      }
    }
  }
}`

	productByHandleQuery = `query productByHandle($handle: String!) {
  productByHandle(handle: $handle) {` + productFieldsFragment + `
  }
}`
)

func (c *client) FetchProducts(ctx context.Context, limit int, query string) ([]types.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	vars := map[string]any{"first": limit}
	if query != "" {
		vars["query"] = query
	}
	var out struct {
		Products struct {
			Edges []struct {
				Node productWire `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.do(ctx, graphqlRequest{Query: productsQuery, Variables: vars}, &out); err != nil {
		return nil, err
	}
	products := make([]types.Product, 0, len(out.Products.Edges))
	for _, edge := range out.Products.Edges {
		products = append(products, edge.Node.normalize())
	}
	return products, nil
}

func (c *client) FetchProductByHandle(ctx context.Context, handle string) (*types.Product, error) {
	var out struct {
		ProductByHandle *productWire `json:"productByHandle"`
	}
	req := graphqlRequest{
		Query:     productByHandleQuery,
		Variables: map[string]any{"handle": handle},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.ProductByHandle == nil {
		return nil, ErrProductNotFound
	}
	product := out.ProductByHandle.normalize()
	return &product, nil
}
