package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

func TestTable_ExplicitName(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Register("FooClass", "Foo", []Mapping{{MethodName: "bar"}}))
	table.Freeze()

	entry, err := table.Match("Foo::bar")
	require.NoError(t, err)
	assert.Equal(t, Entry{ServiceKey: "Foo::bar", ClassName: "FooClass", MethodName: "bar"}, entry)

	_, err = table.Match("Unknown::x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNotFound))

	var nf *util.RouteNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Unknown::x", nf.Path)
}

func TestTable_MappedNames(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Register("app.services.UserService", "", []Mapping{
		{MethodName: "getUser"},
		{MappedName: "list", MethodName: "getUserList"},
	}))

	entry, err := table.Match("User::getUser")
	require.NoError(t, err)
	assert.Equal(t, "getUser", entry.MethodName)

	entry, err = table.Match("User::list")
	require.NoError(t, err)
	assert.Equal(t, "getUserList", entry.MethodName)
	assert.Equal(t, "app.services.UserService", entry.ClassName)

	_, err = table.Match("User::getUserList")
	assert.Error(t, err)

	assert.Equal(t, 2, table.Len())
	keys := make([]string, 0)
	for _, e := range table.Entries() {
		keys = append(keys, e.ServiceKey)
	}
	assert.Equal(t, []string{"User::getUser", "User::list"}, keys)
}

func TestTable_Prefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		suffix string
		svc    string
		class  string
		want   string
	}{
		{name: "explicit name wins", svc: "Billing", class: "app.PayService", want: "Billing"},
		{name: "dotted class", class: "app.services.OrderService", want: "Order"},
		{name: "slashed class", class: "app/services/OrderService", want: "Order"},
		{name: "backslashed class", class: `App\Services\OrderService`, want: "Order"},
		{name: "bare class", class: "OrderService", want: "Order"},
		{name: "lower class", class: "orderService", want: "Order"},
		{name: "no suffix", class: "app.Order", want: ""},
		{name: "suffix only", class: "app.Service", want: ""},
		{name: "custom suffix", suffix: "Rpc", class: "app.CartRpc", want: "Cart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table := NewTable(WithSuffix(tt.suffix))
			assert.Equal(t, tt.want, table.Prefix(tt.svc, tt.class))
		})
	}
}

func TestTable_RegisterErrors(t *testing.T) {
	t.Parallel()

	table := NewTable()

	err := table.Register("app.Order", "", []Mapping{{MethodName: "get"}})
	assert.True(t, errors.Is(err, util.ErrInvalidInput))

	err = table.Register("", "Foo", nil)
	assert.True(t, errors.Is(err, util.ErrInvalidInput))

	err = table.Register("FooService", "", []Mapping{{MappedName: "x"}})
	assert.True(t, errors.Is(err, util.ErrInvalidInput))

	table.Freeze()
	assert.True(t, table.Frozen())
	err = table.Register("FooService", "", []Mapping{{MethodName: "get"}})
	assert.True(t, errors.Is(err, util.ErrRoutingFrozen))
}

func TestTable_LaterRegistrationWins(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Register("v1.FooService", "", []Mapping{{MethodName: "run"}}))
	require.NoError(t, table.Register("v2.FooService", "", []Mapping{{MethodName: "run"}}))

	entry, err := table.Match(Key("Foo", "run"))
	require.NoError(t, err)
	assert.Equal(t, "v2.FooService", entry.ClassName)
	assert.Equal(t, 1, table.Len())
}
