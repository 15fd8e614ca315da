package version

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Version
		wantErr bool
	}{
		"simple":             {input: "1.2.3", want: New(1, 2, 3)},
		"zeros":              {input: "0.0.0", want: New(0, 0, 0)},
		"large components":   {input: "10.200.3000", want: New(10, 200, 3000)},
		"two components":     {input: "1.2", wantErr: true},
		"four components":    {input: "1.2.3.4", wantErr: true},
		"empty":              {input: "", wantErr: true},
		"negative":           {input: "1.-2.3", wantErr: true},
		"plus sign":          {input: "+1.2.3", wantErr: true},
		"v prefix":           {input: "v1.2.3", wantErr: true},
		"prerelease":         {input: "1.2.3-rc.1", wantErr: true},
		"empty component":    {input: "1..3", wantErr: true},
		"whitespace":         {input: " 1.2.3", wantErr: true},
		"non-numeric":        {input: "a.b.c", wantErr: true},
		"trailing separator": {input: "1.2.3.", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidVersion)
				var ive *InvalidVersionError
				require.ErrorAs(t, err, &ive)
				assert.Equal(t, tt.input, ive.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBump(t *testing.T) {
	t.Parallel()

	base := New(1, 2, 3)
	tests := map[string]struct {
		inc  Increment
		want Version
	}{
		"major resets minor and patch": {inc: Major, want: New(2, 0, 0)},
		"minor resets patch":           {inc: Minor, want: New(1, 3, 0)},
		"patch":                        {inc: Patch, want: New(1, 2, 4)},
		"none is identity":             {inc: None, want: New(1, 2, 3)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, base.Bump(tt.inc))
		})
	}

	assert.Equal(t, New(1, 2, 3), base, "bump must not mutate the receiver")
}

func TestBumpChecked(t *testing.T) {
	t.Parallel()

	top := uint64(math.MaxUint64)
	tests := map[string]struct {
		from    Version
		inc     Increment
		want    Version
		wantErr bool
	}{
		"ordinary major":         {from: New(1, 2, 3), inc: Major, want: New(2, 0, 0)},
		"major at the limit":     {from: New(top, 0, 0), inc: Major, wantErr: true},
		"minor at the limit":     {from: New(1, top, 0), inc: Minor, wantErr: true},
		"patch at the limit":     {from: New(1, 2, top), inc: Patch, wantErr: true},
		"minor below full major": {from: New(top, 0, 0), inc: Minor, want: New(top, 1, 0)},
		"none never overflows":   {from: New(top, top, top), inc: None, want: New(top, top, top)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.from.BumpChecked(tt.inc)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOverflow)
				assert.Equal(t, tt.from, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b string
		want int
	}{
		"equal":               {a: "1.2.3", b: "1.2.3", want: 0},
		"major wins":          {a: "2.0.0", b: "1.9.9", want: 1},
		"minor wins":          {a: "1.3.0", b: "1.2.9", want: 1},
		"patch":               {a: "1.2.3", b: "1.2.4", want: -1},
		"numeric not lexical": {a: "1.10.0", b: "1.9.0", want: 1},
		"smaller major lower": {a: "0.99.99", b: "1.0.0", want: -1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a))
			assert.Equal(t, tt.want < 0, a.Less(b))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []Version{New(0, 0, 0), New(1, 2, 3), New(42, 0, 7), New(1<<40, 3, 1<<33)} {
		parsed, err := Parse(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestIncrement(t *testing.T) {
	t.Parallel()

	assert.True(t, None < Patch && Patch < Minor && Minor < Major)
	assert.Equal(t, "Minor", Minor.Label())

	for _, inc := range []Increment{None, Patch, Minor, Major} {
		got, err := ParseIncrement(inc.String())
		require.NoError(t, err)
		assert.Equal(t, inc, got)
	}

	_, err := ParseIncrement("huge")
	assert.Error(t, err)

	var inc Increment
	require.NoError(t, inc.UnmarshalText([]byte("PATCH")))
	assert.Equal(t, Patch, inc)
}

func TestVersionJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Next Version `json:"next"`
	}{Next: New(1, 2, 3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"next": "1.2.3"}`, string(data))

	var v Version
	require.NoError(t, json.Unmarshal([]byte(`"4.5.6"`), &v))
	assert.Equal(t, New(4, 5, 6), v)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"4.5"`), &v), ErrInvalidVersion)
}
