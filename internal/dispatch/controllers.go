package dispatch

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/vyrodovalexey/avaroute/internal/binding"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// ActionFunc handles a routed request. args are built from the action's
// binding.Descriptor in declaration order.
type ActionFunc func(w http.ResponseWriter, r *http.Request, args []any)

// Action is a controller action together with its parameter descriptor.
type Action struct {
	Params binding.Descriptor
	Fn     ActionFunc
}

// Controllers maps controller classes and their actions to functions.
// It also answers class existence for auto routing.
type Controllers struct {
	mu      sync.RWMutex
	actions map[string]map[string]Action
}

// NewControllers creates an empty controller registry.
func NewControllers() *Controllers {
	return &Controllers{actions: make(map[string]map[string]Action)}
}

// Register adds an action. A later registration of the same class and action
// replaces the earlier one.
func (c *Controllers) Register(class, action string, params binding.Descriptor, fn ActionFunc) error {
	if class == "" || action == "" {
		return util.WrapError(util.ErrInvalidInput, "controller class and action are required")
	}
	if fn == nil {
		return util.WrapError(util.ErrInvalidInput, "controller action "+class+"@"+action+" has no function")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.actions[class] == nil {
		c.actions[class] = make(map[string]Action)
	}
	c.actions[class][action] = Action{Params: params, Fn: fn}

	return nil
}

// Lookup returns the action registered for class and action.
func (c *Controllers) Lookup(class, action string) (Action, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.actions[class][action]
	return a, ok
}

// HasController implements router.ControllerLookup.
func (c *Controllers) HasController(class string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.actions[class]
	return ok
}

// Classes returns the registered class names in sorted order.
func (c *Controllers) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.actions))
	for class := range c.actions {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// ServiceFunc implements one RPC method.
type ServiceFunc func(ctx context.Context, params []any) (any, error)

// Services maps service classes and their methods to functions.
type Services struct {
	mu      sync.RWMutex
	methods map[string]map[string]ServiceFunc
}

// NewServices creates an empty service registry.
func NewServices() *Services {
	return &Services{methods: make(map[string]map[string]ServiceFunc)}
}

// Register adds a service method implementation.
func (s *Services) Register(class, method string, fn ServiceFunc) error {
	if class == "" || method == "" {
		return util.WrapError(util.ErrInvalidInput, "service class and method are required")
	}
	if fn == nil {
		return util.WrapError(util.ErrInvalidInput, "service method "+class+"::"+method+" has no function")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.methods[class] == nil {
		s.methods[class] = make(map[string]ServiceFunc)
	}
	s.methods[class][method] = fn

	return nil
}

// Lookup returns the function registered for class and method.
func (s *Services) Lookup(class, method string) (ServiceFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn, ok := s.methods[class][method]
	return fn, ok
}
