package prolog

import _ "embed"

// preludeSource is the bundled library every fresh Runtime consults
// before returning from New. Grounded on the bootstrap-file pattern
// another pack member (a Prolog-in-Go embedder) uses to ship its
// standard predicates as a //go:embed text asset rather than
// constructing them as Go literals.
//
//go:embed prelude.pl
var preludeSource string
