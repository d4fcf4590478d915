package notification

import "html/template"

var checkoutTmpl = template.Must(template.New("checkout").Parse(`
<h2>Order Confirmation #{{.OrderID}}</h2>
<p>Hi {{.CustomerName}}, thank you for your order.</p>
<table>
  <tr><th>Item</th><th>Qty</th><th>Price</th></tr>
  {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td></tr>{{end}}
</table>
<p>Total: {{.TotalAmount}}</p>
<p>Payment method: {{.PaymentMethod}}</p>
<p>Shipping address: {{.ShippingAddress}}</p>
`))

var paymentTmpl = template.Must(template.New("payment").Parse(`
<h2>Payment Update #{{.OrderID}}</h2>
<p>Hi {{.CustomerName}},</p>
<p>Your payment of {{.Amount}} via {{.PaymentMethod}} is now <b>{{.PaymentStatus}}</b>.</p>
<p>Transaction date: {{.TransactionDate}}</p>
`))

var statusChangeTmpl = template.Must(template.New("status").Parse(`
<h2>Order Status Update #{{.OrderID}}</h2>
<p>Your order {{.PreviousMessage}} and now {{.NewMessage}}.</p>
`))

// statusMessages mirrors the customer-facing wording used in the
// order-status email.
var statusMessages = map[string]string{
	"pending":    "is pending confirmation",
	"processing": "is being processed",
	"shipped":    "has been shipped",
	"delivered":  "has been delivered",
	"cancelled":  "has been cancelled",
}
