package community

import (
	"reflect"
	"testing"

	"github.com/splitlens/splitlens/internal/store"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"OrderService", []string{"order", "service"}},
		{"orderService", []string{"order", "service"}},
		{"HTTPServer", []string{"http", "server"}},
		{"parseXMLDocument", []string{"parse", "xml", "document"}},
		{"order_line_item", []string{"order", "line", "item"}},
		{"Order2Cash", []string{"order2", "cash"}},
		{"ABC", []string{"abc"}},
		{"", nil},
		{"__", nil},
	}
	for _, tt := range tests {
		if got := tokenize(tt.name); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSuggestServiceName(t *testing.T) {
	tests := []struct {
		name    string
		members []*store.Component
		want    string
	}{
		{
			name: "dominant token and type",
			members: []*store.Component{
				{Name: "OrderService", Type: store.TypeService},
				{Name: "OrderValidator", Type: store.TypeService},
				{Name: "InvoiceService", Type: store.TypeService},
			},
			want: "order-service-service",
		},
		{
			name: "stop words never become the token",
			members: []*store.Component{
				{Name: "BaseController", Type: store.TypeController},
				{Name: "UserController", Type: store.TypeController},
			},
			want: "user-controller-service",
		},
		{
			name: "all tokens stopped falls back to type only",
			members: []*store.Component{
				{Name: "AbstractBaseService", Type: store.TypeService},
			},
			want: "service-service",
		},
		{
			name: "token tie breaks lexicographically",
			members: []*store.Component{
				{Name: "ZebraFeeder", Type: store.TypeService},
				{Name: "ApplePicker", Type: store.TypeService},
			},
			want: "apple-service-service",
		},
		{
			name: "type tie breaks lexicographically",
			members: []*store.Component{
				{Name: "OrderController", Type: store.TypeController},
				{Name: "OrderMapper", Type: store.TypeModel},
			},
			want: "order-controller-service",
		},
		{
			name:    "no members",
			members: nil,
			want:    "component-service",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suggestServiceName(tt.members); got != tt.want {
				t.Errorf("suggestServiceName() = %q, want %q", got, tt.want)
			}
		})
	}
}
