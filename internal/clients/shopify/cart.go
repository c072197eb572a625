package shopify

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

const cartFieldsFragment = `
  id
  checkoutUrl
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            price { amount currencyCode }
            selectedOptions { name value }
            product {
              id
              handle
              title
              images(first: 1) { edges { node { url altText } } }
            }
          }
        }
      }
    }
  }`

var (
	cartQuery = fmt.Sprintf(`query cart($id: ID!) {
  cart(id: $id) {%s
  }
}`, cartFieldsFragment)

	cartCreateMutation = fmt.Sprintf(`mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {%s
    }
    userErrors { field message code }
  }
}`, cartFieldsFragment)

	cartLinesAddMutation = fmt.Sprintf(`mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {%s
    }
    userErrors { field message code }
  }
}`, cartFieldsFragment)

	cartLinesUpdateMutation = fmt.Sprintf(`mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {%s
    }
    userErrors { field message code }
  }
}`, cartFieldsFragment)

	cartLinesRemoveMutation = fmt.Sprintf(`mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {%s
    }
    userErrors { field message code }
  }
}`, cartFieldsFragment)
)

type cartMutationPayloadWire struct {
	Cart       *cartWire       `json:"cart"`
	UserErrors []userErrorWire `json:"userErrors"`
}

// normalizeMutation maps the mutation payload onto the client error taxonomy:
// a missing-cart userError or a null cart becomes ErrCartNotFound, a
// missing-line userError becomes ErrLineNotFound, anything else invalid.
func normalizeMutation(payload cartMutationPayloadWire) (*types.CartSnapshot, error) {
	for _, ue := range payload.UserErrors {
		msg := strings.ToLower(ue.Message)
		switch {
		case strings.Contains(msg, "cart") && strings.Contains(msg, "does not exist"):
			return nil, ErrCartNotFound
		case strings.Contains(msg, "line") && strings.Contains(msg, "does not exist"):
			return nil, ErrLineNotFound
		case strings.Contains(msg, "merchandise") && strings.Contains(msg, "does not exist"):
			return nil, ErrLineNotFound
		default:
			return nil, fmt.Errorf("shopify user error %s: %s: %w", ue.Code, ue.Message, pkgerrors.ErrInvalidArgument)
		}
	}
	if payload.Cart == nil {
		return nil, ErrCartNotFound
	}
	return payload.Cart.normalize(), nil
}

func lineInput(line types.CartLine) map[string]any {
	return map[string]any{
		"merchandiseId": line.VariantID,
		"quantity":      line.Quantity,
	}
}

func (c *client) CreateCart(ctx context.Context, line types.CartLine) (*types.CartSnapshot, error) {
	var out struct {
		CartCreate cartMutationPayloadWire `json:"cartCreate"`
	}
	req := graphqlRequest{
		Query: cartCreateMutation,
		Variables: map[string]any{
			"input": map[string]any{"lines": []map[string]any{lineInput(line)}},
		},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	snap, err := normalizeMutation(out.CartCreate)
	if err != nil {
		return nil, err
	}
	c.log.Debug("Created remote cart", "cart_id", snap.ID, "lines", len(snap.Lines))
	return snap, nil
}

func (c *client) FetchCart(ctx context.Context, cartID string) (*types.CartSnapshot, error) {
	wire, err := c.fetchCartWire(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return wire.normalize(), nil
}

func (c *client) fetchCartWire(ctx context.Context, cartID string) (*cartWire, error) {
	var out struct {
		Cart *cartWire `json:"cart"`
	}
	req := graphqlRequest{
		Query:     cartQuery,
		Variables: map[string]any{"id": cartID},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Cart == nil {
		return nil, ErrCartNotFound
	}
	return out.Cart, nil
}

func (c *client) AddLine(ctx context.Context, cartID string, line types.CartLine) (*types.CartSnapshot, error) {
	var out struct {
		CartLinesAdd cartMutationPayloadWire `json:"cartLinesAdd"`
	}
	req := graphqlRequest{
		Query: cartLinesAddMutation,
		Variables: map[string]any{
			"cartId": cartID,
			"lines":  []map[string]any{lineInput(line)},
		},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return normalizeMutation(out.CartLinesAdd)
}

// UpdateLine resolves the backend's own line id for the variant first; the
// store keys lines by variant id and never sees remote line handles.
func (c *client) UpdateLine(ctx context.Context, cartID, variantID string, quantity int) (*types.CartSnapshot, error) {
	lineID, err := c.resolveLineID(ctx, cartID, variantID)
	if err != nil {
		return nil, err
	}
	var out struct {
		CartLinesUpdate cartMutationPayloadWire `json:"cartLinesUpdate"`
	}
	req := graphqlRequest{
		Query: cartLinesUpdateMutation,
		Variables: map[string]any{
			"cartId": cartID,
			"lines":  []map[string]any{{"id": lineID, "quantity": quantity}},
		},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return normalizeMutation(out.CartLinesUpdate)
}

func (c *client) RemoveLine(ctx context.Context, cartID, variantID string) (*types.CartSnapshot, error) {
	lineID, err := c.resolveLineID(ctx, cartID, variantID)
	if err != nil {
		return nil, err
	}
	var out struct {
		CartLinesRemove cartMutationPayloadWire `json:"cartLinesRemove"`
	}
	req := graphqlRequest{
		Query: cartLinesRemoveMutation,
		Variables: map[string]any{
			"cartId":  cartID,
			"lineIds": []string{lineID},
		},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return normalizeMutation(out.CartLinesRemove)
}

func (c *client) resolveLineID(ctx context.Context, cartID, variantID string) (string, error) {
	wire, err := c.fetchCartWire(ctx, cartID)
	if err != nil {
		return "", err
	}
	for _, edge := range wire.Lines.Edges {
		if edge.Node.Merchandise.ID == variantID {
			return edge.Node.ID, nil
		}
	}
	return "", ErrLineNotFound
}
