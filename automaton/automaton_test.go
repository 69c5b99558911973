package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMatch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Name     string
		Patterns []string
		Action   string
		Match    bool
	}{
		{
			Name:     "ExactMatch",
			Patterns: []string{"cluster:monitor/state"},
			Action:   "cluster:monitor/state",
			Match:    true,
		},
		{
			Name:     "ExactMismatch",
			Patterns: []string{"cluster:monitor/state"},
			Action:   "cluster:monitor/stats",
			Match:    false,
		},
		{
			Name:     "SuffixWildcard",
			Patterns: []string{"cluster:admin/*"},
			Action:   "cluster:admin/ilm/stop",
			Match:    true,
		},
		{
			Name:     "SuffixWildcardOutsideNamespace",
			Patterns: []string{"cluster:admin/*"},
			Action:   "cluster:monitor/state",
			Match:    false,
		},
		{
			Name:     "WildcardMatchesEmptyRun",
			Patterns: []string{"cluster:admin/ilm/*"},
			Action:   "cluster:admin/ilm/",
			Match:    true,
		},
		{
			Name:     "InteriorWildcard",
			Patterns: []string{"cluster:*/get"},
			Action:   "cluster:admin/repository/get",
			Match:    true,
		},
		{
			Name:     "SingleChar",
			Patterns: []string{"cluster:monitor/node?"},
			Action:   "cluster:monitor/nodes",
			Match:    true,
		},
		{
			Name:     "SingleCharNeedsOne",
			Patterns: []string{"cluster:monitor/node?"},
			Action:   "cluster:monitor/node",
			Match:    false,
		},
		{
			Name:     "EscapedStarIsLiteral",
			Patterns: []string{`cluster:admin\*`},
			Action:   "cluster:admin*",
			Match:    true,
		},
		{
			Name:     "EscapedStarDoesNotExpand",
			Patterns: []string{`cluster:admin\*`},
			Action:   "cluster:admin/ilm/stop",
			Match:    false,
		},
		{
			Name:     "UnionOfPatterns",
			Patterns: []string{"cluster:admin/xpack/ml/*", "cluster:monitor/xpack/ml/*"},
			Action:   "cluster:monitor/xpack/ml/info",
			Match:    true,
		},
		{
			Name:     "EmptyPatternMatchesEmptyString",
			Patterns: []string{""},
			Action:   "",
			Match:    true,
		},
		{
			Name:     "EmptyPatternOnlyEmptyString",
			Patterns: []string{""},
			Action:   "a",
			Match:    false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			a, err := Compile(tc.Patterns...)
			require.NoError(t, err)
			require.Equal(t, tc.Match, a.Run(tc.Action))
		})
	}
}

func TestCompileEmptySet(t *testing.T) {
	t.Parallel()
	a, err := Compile()
	require.NoError(t, err)
	require.True(t, a.IsEmpty())
	require.False(t, a.Run(""))
	require.False(t, a.Run("cluster:monitor/state"))
}

func TestCompileMalformed(t *testing.T) {
	t.Parallel()
	_, err := Compile(`cluster:admin\`)
	require.Error(t, err)
	var malformed *MalformedPatternError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, `cluster:admin\`, malformed.Pattern)
	require.ErrorContains(t, err, "malformed action pattern")
}

// TestCompileCanonical ensures the compiled result is a property of the
// language, not of pattern order: reordered and redundant inputs produce
// structurally identical automatons.
func TestCompileCanonical(t *testing.T) {
	t.Parallel()

	a, err := Compile("cluster:admin/*", "cluster:monitor/*")
	require.NoError(t, err)
	b, err := Compile("cluster:monitor/*", "cluster:admin/*")
	require.NoError(t, err)
	require.Equal(t, a, b)

	// A pattern subsumed by another must not change the result.
	c, err := Compile("cluster:admin/*", "cluster:admin/ilm/*")
	require.NoError(t, err)
	d, err := Compile("cluster:admin/*")
	require.NoError(t, err)
	require.Equal(t, d, c)
	require.Equal(t, d.NumStates(), c.NumStates())
}

func TestSubsetOf(t *testing.T) {
	t.Parallel()

	ilm := MustCompile("cluster:admin/ilm/*")
	admin := MustCompile("cluster:admin/*")
	monitor := MustCompile("cluster:monitor/*")

	testCases := []struct {
		Name   string
		A      *Automaton
		B      *Automaton
		Subset bool
	}{
		{Name: "NarrowInWide", A: ilm, B: admin, Subset: true},
		{Name: "WideNotInNarrow", A: admin, B: ilm, Subset: false},
		{Name: "Self", A: admin, B: admin, Subset: true},
		{Name: "Disjoint", A: monitor, B: admin, Subset: false},
		{Name: "EmptyInAnything", A: Empty(), B: monitor, Subset: true},
		{Name: "EmptyInEmpty", A: Empty(), B: Empty(), Subset: true},
		{Name: "NonEmptyNotInEmpty", A: monitor, B: Empty(), Subset: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.Subset, tc.A.SubsetOf(tc.B))
		})
	}
}

func TestUnion(t *testing.T) {
	t.Parallel()

	ml := MustCompile("cluster:admin/xpack/ml/*")
	ilm := MustCompile("cluster:admin/ilm/*")
	merged := Union(ml, ilm)

	assert.True(t, merged.Run("cluster:admin/xpack/ml/job/open"))
	assert.True(t, merged.Run("cluster:admin/ilm/stop"))
	assert.False(t, merged.Run("cluster:admin/snapshot/status"))

	assert.True(t, ml.SubsetOf(merged))
	assert.True(t, ilm.SubsetOf(merged))
	assert.False(t, merged.SubsetOf(ml))

	// Identity cases.
	assert.True(t, Union().IsEmpty())
	assert.Same(t, ml, Union(ml))
	assert.True(t, Union(ml, Empty()).SameLanguage(ml))

	// Union is equivalent to compiling the combined pattern set.
	combined := MustCompile("cluster:admin/xpack/ml/*", "cluster:admin/ilm/*")
	assert.Equal(t, combined, merged)
}

func TestMinus(t *testing.T) {
	t.Parallel()

	allCluster := MustCompile("cluster:*")
	security := MustCompile("cluster:admin/xpack/security/*")
	manage := Minus(allCluster, security)

	assert.True(t, manage.Run("cluster:admin/repository/put"))
	assert.True(t, manage.Run("cluster:monitor/state"))
	assert.False(t, manage.Run("cluster:admin/xpack/security/user/put"))

	assert.True(t, manage.SubsetOf(allCluster))
	assert.False(t, allCluster.SubsetOf(manage))

	assert.True(t, Minus(security, security).IsEmpty())
	assert.True(t, Minus(Empty(), allCluster).IsEmpty())
	assert.True(t, Minus(allCluster, Empty()).SameLanguage(allCluster))
}

func TestSameLanguage(t *testing.T) {
	t.Parallel()

	a := MustCompile("cluster:a*", "cluster:ab*")
	b := MustCompile("cluster:a*")
	require.True(t, a.SameLanguage(b))
	require.Equal(t, b.NumStates(), a.NumStates())

	c := MustCompile("cluster:ab*")
	require.False(t, a.SameLanguage(c))
}
