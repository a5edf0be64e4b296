package schema

const ProductCreatedSchemaTextV1 = `{
	"type": "record",
	"namespace": "marketplace",
	"name": "product_created",
	"fields": [
		{"name": "product_address", "type": "string"},
		{"name": "seller", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "price", "type": "long"},
		{"name": "category", "type": "string"},
		{"name": "division", "type": "string"}
	]
}`

type ProductCreatedV1 struct {
	ProductAddress string `avro:"product_address"`
	Seller         string `avro:"seller"`
	Name           string `avro:"name"`
	Price          int64  `avro:"price"`
	Category       string `avro:"category"`
	Division       string `avro:"division"`
}

const CartUpdatedSchemaTextV1 = `{
	"type": "record",
	"namespace": "marketplace",
	"name": "cart_updated",
	"fields": [
		{"name": "consumer", "type": "string"},
		{"name": "seller", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "quantity", "type": "long"},
		{"name": "price", "type": "long"},
		{"name": "total_amount", "type": "long"}
	]
}`

type CartUpdatedV1 struct {
	Consumer    string `avro:"consumer"`
	Seller      string `avro:"seller"`
	ProductName string `avro:"product_name"`
	Quantity    int64  `avro:"quantity"`
	Price       int64  `avro:"price"`
	TotalAmount int64  `avro:"total_amount"`
}

const EscrowSettledSchemaTextV1 = `{
	"type": "record",
	"namespace": "marketplace",
	"name": "escrow_settled",
	"fields": [
		{"name": "buyer", "type": "string"},
		{"name": "seller", "type": "string"},
		{"name": "amount", "type": "long"}
	]
}`

type EscrowSettledV1 struct {
	Buyer  string `avro:"buyer"`
	Seller string `avro:"seller"`
	Amount int64  `avro:"amount"`
}

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "marketplace",
	"name": "order_placed",
	"fields": [
		{"name": "signer", "type": "string"},
		{"name": "order_id", "type": "string"},
		{"name": "payment_id", "type": "string"}
	]
}`

type OrderPlacedV1 struct {
	Signer    string `avro:"signer"`
	OrderID   string `avro:"order_id"`
	PaymentID string `avro:"payment_id"`
}
