// Package config defines the route document and its loading, validation,
// conversion and file watching.
//
// A route document is YAML:
//
//	apiVersion: avaroute.io/v1
//	kind: RouteTable
//	metadata:
//	  name: shop
//	spec:
//	  options:
//	    autoRoute: true
//	    controllerNamespace: app.controllers
//	  useDefaultParams: true
//	  routes:
//	    - path: /user/{id}
//	      methods: [GET]
//	      handler: User@view
//	  groups:
//	    - prefix: /admin
//	      routes:
//	        - path: /{action}
//	          handler: Admin
//	  services:
//	    - class: app.UserService
//	      methods:
//	        - method: login
//
// ${VAR} and ${VAR:-default} are replaced from the environment before
// decoding; "$$" is a literal dollar sign.
//
// Validate reports every problem of a document as ValidationErrors. A valid
// document converts into router.Options and a router.RegisterFunc with
// RouterOptions and RegisterFunc, and into a frozen service table with
// ServiceTable.
//
// Watcher re-reads the document on change (debounced) and hands valid
// revisions to a callback; invalid revisions go to the error callback.
package config
