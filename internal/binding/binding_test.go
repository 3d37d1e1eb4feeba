package binding

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

func TestParse(t *testing.T) {
	t.Parallel()

	desc, err := Parse("req:request", "id:int", "name", "ratio:double", "flag:bool", "w:response", "user:UserModel")
	require.NoError(t, err)

	want := Descriptor{
		{Name: "req", Kind: Request},
		{Name: "id", Kind: Int},
		{Name: "name", Kind: Untyped},
		{Name: "ratio", Kind: Float},
		{Name: "flag", Kind: Bool},
		{Name: "w", Kind: Response},
		{Name: "user", Kind: Other},
	}
	assert.Equal(t, want, desc)
	assert.Equal(t, "req:request, id:int, name, ratio:float, flag:bool, w:response, user:other", desc.String())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		specs []string
	}{
		{name: "empty name", specs: []string{":int"}},
		{name: "blank", specs: []string{"  "}},
		{name: "duplicate", specs: []string{"id:int", "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.specs...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrInvalidInput))
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustParse("") })
	assert.NotPanics(t, func() { MustParse("id:int") })
}

func TestBind(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/user/12", nil)
	w := httptest.NewRecorder()

	desc := MustParse("w:response", "id:int", "name", "missing", "ratio:float", "on:bool", "title:string", "user:Model", "req:request")
	args := Bind(desc, map[string]string{
		"id":    "12",
		"name":  "tom",
		"ratio": "0.25",
		"on":    "1",
		"title": "hello",
		"user":  "u1",
	}, req, w)

	require.Len(t, args, len(desc))
	assert.Same(t, w, args[0])
	assert.Equal(t, int64(12), args[1])
	assert.Equal(t, "tom", args[2])
	assert.Nil(t, args[3])
	assert.Equal(t, 0.25, args[4])
	assert.Equal(t, true, args[5])
	assert.Equal(t, "hello", args[6])
	assert.Equal(t, "u1", args[7])
	assert.Same(t, req, args[8])
}

func TestBind_MissingCapturesUseZeroValues(t *testing.T) {
	t.Parallel()

	desc := MustParse("a:int", "b:string", "c:bool", "d:float", "e", "f:Model")
	args := Bind(desc, nil, nil, nil)

	assert.Equal(t, []any{int64(0), "", false, float64(0), nil, nil}, args)
}

func TestBind_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Bind(nil, map[string]string{"id": "1"}, nil, nil))
}

func TestCoercion(t *testing.T) {
	t.Parallel()

	ints := map[string]int64{
		"42":    42,
		"-7":    -7,
		"+3":    3,
		"12abc": 12,
		"  9":   9,
		"abc":   0,
		"":      0,
		"-":     0,

		"99999999999999999999":  math.MaxInt64,
		"-99999999999999999999": math.MinInt64,
	}
	for in, want := range ints {
		assert.Equal(t, want, toInt(in), "toInt(%q)", in)
	}

	floats := map[string]float64{
		"1.5":   1.5,
		"1.5kg": 1.5,
		".5":    0.5,
		"5.":    5,
		"-2e3":  -2000,
		"3e":    3,
		"abc":   0,
		".":     0,
		"":      0,
	}
	for in, want := range floats {
		assert.Equal(t, want, toFloat(in), "toFloat(%q)", in)
	}

	bools := map[string]bool{
		"":      false,
		"0":     false,
		"1":     true,
		"false": false,
		"FALSE": false,
		"yes":   true,
	}
	for in, want := range bools {
		assert.Equal(t, want, toBool(in), "toBool(%q)", in)
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "untyped", Untyped.String())
	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.Equal(t, Float, ParseKind("Double"))
	assert.Equal(t, Request, ParseKind("*http.Request"))
}
