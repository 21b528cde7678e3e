package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/anistream/internal/catalog"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		ref  Ref
		want string
	}{
		{"provider A verbatim", A("one-piece-episode-1100"), "one-piece-episode-1100"},
		{"provider B anime", B(42, "foo"), "b-42-foo"},
		{"provider B anime with dashes", B(185, "naruto-shippuden"), "b-185-naruto-shippuden"},
		{"provider B episode", BEpisode(185, "naruto", 1), "b-185-naruto-1"},
		{"numeric tail gets terminator", B(7, "mob-psycho-100"), "b-7-mob-psycho-100-"},
		{"numeric tail episode", BEpisode(7, "mob-psycho-100", 3), "b-7-mob-psycho-100-3"},
		{"single numeric segment", B(1, "100"), "b-1-100"},
		{"trailing delimiter in slug", B(9, "foo-"), "b-9-foo--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.ref))
			assert.Equal(t, tt.want, tt.ref.String())
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("provider A slug", func(t *testing.T) {
		ref, err := Decode("sousou-no-frieren")
		require.NoError(t, err)
		assert.Equal(t, catalog.SourceA, ref.Source)
		assert.Equal(t, "sousou-no-frieren", ref.Slug)
		assert.False(t, ref.HasEpisode)
	})

	t.Run("provider B anime", func(t *testing.T) {
		ref, err := Decode("b-42-foo")
		require.NoError(t, err)
		assert.Equal(t, B(42, "foo"), ref)
	})

	t.Run("provider B episode", func(t *testing.T) {
		ref, err := Decode("b-185-naruto-shippuden-12")
		require.NoError(t, err)
		assert.Equal(t, BEpisode(185, "naruto-shippuden", 12), ref)
	})

	t.Run("b-prefixed provider A slug", func(t *testing.T) {
		ref, err := Decode("b-project-kodoku-to-ai")
		require.NoError(t, err)
		assert.Equal(t, A("b-project-kodoku-to-ai"), ref)
	})

	t.Run("unterminated numeric tail reads as episode", func(t *testing.T) {
		ref, err := Decode("b-7-mob-psycho-100")
		require.NoError(t, err)
		assert.Equal(t, BEpisode(7, "mob-psycho", 100), ref)
	})

	malformed := []string{"b-", "b-42", "b-42-", "b-42--", "b-99999999999999999999999-foo"}
	for _, token := range malformed {
		t.Run("rejects "+token, func(t *testing.T) {
			_, err := Decode(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnrecognizedToken)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	refs := []Ref{
		A("kimetsu-no-yaiba"),
		A("one-piece-episode-1100"),
		B(0, "zero"),
		B(42, "foo"),
		B(185, "naruto-shippuden"),
		B(7, "mob-psycho-100"),
		B(1, "100"),
		B(1, "-5"),
		B(2, "a--"),
		B(3, "foo-"),
		B(4, "86-eighty-six"),
		BEpisode(185, "naruto", 1),
		BEpisode(7, "mob-psycho-100", 3),
		BEpisode(1, "100", 5),
		BEpisode(3, "foo-", 12),
		BEpisode(4, "season-2", 0),
	}

	for _, ref := range refs {
		t.Run(Encode(ref), func(t *testing.T) {
			require.NoError(t, ref.Validate())
			decoded, err := Decode(Encode(ref))
			require.NoError(t, err)
			assert.Equal(t, ref, decoded)
		})
	}
}

func TestRefHelpers(t *testing.T) {
	ep := BEpisode(42, "foo", 5)

	assert.Equal(t, B(42, "foo"), ep.Anime())
	assert.Equal(t, BEpisode(42, "foo", 6), ep.WithEpisode(6))
	assert.True(t, IsB("b-42-foo"))
	assert.False(t, IsB("foo"))
	assert.False(t, IsB("b-42"))
}

func TestValidate(t *testing.T) {
	assert.Error(t, A("").Validate())
	assert.Error(t, B(-1, "foo").Validate())
	assert.Error(t, BEpisode(1, "foo", -2).Validate())
	assert.Error(t, Ref{Source: "C", Slug: "x"}.Validate())
	assert.NoError(t, BEpisode(1, "foo", 2).Validate())
}
