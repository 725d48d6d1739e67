// Package integration contains the supplier integration bounded context.
// It links a product variation of our catalog to the offer of an external
// supplier and to the product id in the external ERP catalog.
//
// Key concepts:
//   - SupplierProduct: how one supplier sells one of our variations
//     (price, supplier-side code, stock flag, product page)
//   - ExternalCatalogID: the product id in the external catalog system
//
// Adapters (persistence) live in the infrastructure layer.
package integration
