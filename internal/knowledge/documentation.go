package knowledge

import "context"

// DocumentationAdapter emits the built-in system and process documentation.
// Content is static text compiled into the binary; collection cannot fail.
type DocumentationAdapter struct {
	maxChars int
}

// NewDocumentationAdapter creates the static documentation adapter.
func NewDocumentationAdapter(maxChars int) *DocumentationAdapter {
	return &DocumentationAdapter{maxChars: maxChars}
}

// Name implements Adapter.
func (*DocumentationAdapter) Name() string { return "documentation" }

// Collect implements Adapter. It never returns an error.
func (a *DocumentationAdapter) Collect(context.Context) ([]Fragment, error) {
	entries := append(systemDocs(), processDocs()...)

	fragments := make([]Fragment, 0, len(entries))
	for _, e := range entries {
		if f, ok := NewFragment("Title: "+e.title+"\n\n"+e.body,
			"Documentation: "+e.title, CategoryDocumentation, a.maxChars); ok {
			fragments = append(fragments, f)
		}
	}
	return fragments, nil
}

type docEntry struct {
	title string
	body  string
}

// systemDocs describes the day-to-day operations of the business suite.
func systemDocs() []docEntry {
	return []docEntry{
		{
			title: "Sales Invoice Creation",
			body: `To create a Sales Invoice:
1. Go to Accounts > Sales Invoice
2. Select Customer
3. Add Items with quantities and rates
4. Set posting date
5. Save and Submit

Key fields: customer, posting_date, items, taxes, grand_total`,
		},
		{
			title: "Customer Management",
			body: `Customer management:
1. Create Customer: CRM > Customer > New
2. Set customer group and territory
3. Add contact and address details
4. Configure payment terms
5. Set credit limits if needed

Key fields: customer_name, customer_group, territory, payment_terms`,
		},
		{
			title: "Item Master Setup",
			body: `Item Master configuration:
1. Go to Stock > Item > New
2. Set item code and name
3. Choose item group
4. Set UOM (Unit of Measure)
5. Configure valuation and accounting
6. Set reorder levels

Key fields: item_code, item_name, item_group, stock_uom, valuation_rate`,
		},
		{
			title: "Purchase Order Process",
			body: `Purchase Order workflow:
1. Go to Buying > Purchase Order
2. Select Supplier
3. Add items with quantities
4. Set delivery date
5. Save and Submit
6. Create Purchase Receipt upon delivery
7. Create Purchase Invoice for payment

Key fields: supplier, transaction_date, items, delivery_date, grand_total`,
		},
	}
}

// processDocs describes cross-document business workflows.
func processDocs() []docEntry {
	return []docEntry{
		{
			title: "Lead to Customer Conversion",
			body: `Lead to Customer conversion process:
1. Create Lead in CRM module
2. Qualify lead through follow-ups
3. Convert qualified lead to Opportunity
4. Create Quotation from Opportunity
5. Convert Quotation to Sales Order
6. Convert Customer from Lead when ready

Key reports: Lead Details, Conversion Rate, Sales Funnel`,
		},
		{
			title: "Order to Cash Process",
			body: `Complete Order to Cash workflow:
1. Receive Sales Order from customer
2. Check item availability in stock
3. Create Delivery Note for shipment
4. Generate Sales Invoice for billing
5. Record Payment Entry when received
6. Update customer ledger

Key documents: Sales Order, Delivery Note, Sales Invoice, Payment Entry`,
		},
		{
			title: "Procure to Pay Process",
			body: `Procurement to Payment workflow:
1. Create Material Request for requirements
2. Generate Purchase Order to supplier
3. Receive goods via Purchase Receipt
4. Verify Purchase Invoice from supplier
5. Make Payment Entry to supplier
6. Update supplier ledger

Key documents: Material Request, Purchase Order, Purchase Receipt, Purchase Invoice`,
		},
		{
			title: "Inventory Management",
			body: `Stock management best practices:
1. Maintain accurate item masters
2. Set reorder levels for automatic procurement
3. Conduct regular stock reconciliation
4. Use batch/serial tracking for traceability
5. Monitor stock aging and movement
6. Implement ABC analysis for optimization

Key reports: Stock Balance, Stock Ledger, Stock Aging, Reorder Report`,
		},
	}
}
