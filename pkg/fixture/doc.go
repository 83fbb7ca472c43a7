// Package fixture models the data a component is previewed with.
//
// A Fixture is a plain map from string keys to arbitrary values. Proxies in a
// preview chain read the keys they own (for example "reduxState" or "state")
// and forward the rest unchanged. Fixture helpers never mutate their input:
// Omit and Merge return copies.
//
// Fixtures are stored as YAML or JSON files:
//
//	component: Counter
//	fixture:
//	  reduxState:
//	    count: 1
//	  label: Clicks
//
// and loaded through a Source. DirSource reads a local directory and can watch
// it for changes; S3Source reads objects under a bucket prefix.
package fixture
