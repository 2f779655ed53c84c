package trace

// Span attribute keys used by the pokedex query spans.
const (
	AttrPokemonName = "pokedex.name"
	AttrCacheHit    = "pokedex.cache_hit"
	AttrCacheLayer  = "pokedex.cache_layer"
	AttrTranslator  = "pokedex.translator"
)
