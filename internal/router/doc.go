// Package router resolves HTTP requests to handler references.
//
// Routes are registered on a Registry during startup and compiled into one
// of three partitions:
//
//   - static: literal paths, looked up by exact key
//   - regular: dynamic patterns whose first node is literal, bucketed by it
//   - vague: dynamic patterns starting with a placeholder, bucketed by method
//
// Freeze turns a Registry into a read-only Matcher. Match walks the resolved
// cache, then the partitions in the order above, then convention based
// controller resolution when AutoRoute is on. Within a partition the first
// registered route wins; no specificity scoring is done.
//
// # Patterns
//
// Placeholders are written {name} and default to [^/]+. Optional trailing
// segments use brackets and may nest:
//
//	/blog[/{page}]
//	/user/{id}[/{tab}[/{sub}]]
//
// # Usage
//
//	r := router.New(router.WithLogger(logger))
//	err := r.Load(router.DefaultOptions(), func(reg *router.Registry) error {
//	    _, err := reg.Get("/user/{id}", router.ParseHandler("User@view"))
//	    return err
//	})
//
//	res := r.Match("GET", "/user/12")
//	if res.Status == router.Found {
//	    // res.Handler, res.Params["id"] == "12"
//	}
//
// Router.Load rebuilds the table aside and swaps it in atomically, so
// in-flight lookups never observe a partially built table.
package router
