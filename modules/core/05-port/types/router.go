package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Module identifies an application module reachable through the router.
type Module int32

const (
	// ModuleTransfer is the ICS-20 fungible token transfer application.
	ModuleTransfer Module = iota + 1
)

var moduleNames = map[Module]string{
	ModuleTransfer: "transfer",
}

// String implements the Stringer interface
func (m Module) String() string {
	if name, ok := moduleNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Module(%d)", int32(m))
}

// portModules maps the well known ports to the module bound to them.
var portModules = map[string]Module{
	PortIDTransfer: ModuleTransfer,
}

// LookupModuleByPort returns the module bound to portID.
func LookupModuleByPort(portID string) (Module, error) {
	module, ok := portModules[portID]
	if !ok {
		return 0, errorsmod.Wrapf(ErrUnknownPort, "no module bound to port %s", portID)
	}
	return module, nil
}

// The router is a map from module to the IBCModule
// which contains all the module-defined callbacks required by ICS-26
type Router struct {
	routes map[Module]IBCModule
	sealed bool
}

// NewRouter returns a router with the transfer application registered.
func NewRouter(transfer IBCModule) *Router {
	rtr := &Router{
		routes: make(map[Module]IBCModule),
	}
	return rtr.AddRoute(ModuleTransfer, transfer)
}

// Seal prevents the Router from any subsequent route handlers to be registered.
// Seal will panic if called more than once.
func (rtr *Router) Seal() {
	if rtr.sealed {
		panic(fmt.Errorf("router already sealed"))
	}
	rtr.sealed = true
}

// Sealed returns a boolean signifying if the Router is sealed or not.
func (rtr Router) Sealed() bool {
	return rtr.sealed
}

// AddRoute adds IBCModule for a given module. It returns the Router
// so AddRoute calls can be linked. It will panic if the Router is sealed.
func (rtr *Router) AddRoute(module Module, cbs IBCModule) *Router {
	if rtr.sealed {
		panic(fmt.Errorf("router sealed; cannot register %s route callbacks", module))
	}
	if _, ok := moduleNames[module]; !ok {
		panic(fmt.Errorf("unknown module %s", module))
	}
	if cbs == nil {
		panic(fmt.Errorf("no callbacks provided for %s", module))
	}
	if rtr.HasRoute(module) {
		panic(fmt.Errorf("route %s has already been registered", module))
	}

	rtr.routes[module] = cbs
	return rtr
}

// HasRoute returns true if the Router has a module registered or false otherwise.
func (rtr *Router) HasRoute(module Module) bool {
	_, ok := rtr.routes[module]
	return ok
}

// GetRoute returns the IBCModule registered for module.
func (rtr *Router) GetRoute(module Module) (IBCModule, error) {
	cbs, ok := rtr.routes[module]
	if !ok {
		return nil, errorsmod.Wrapf(ErrRouteNotFound, "route not found for module %s", module)
	}
	return cbs, nil
}

// RouteByPort returns the IBCModule bound to portID.
func (rtr *Router) RouteByPort(portID string) (IBCModule, error) {
	module, err := LookupModuleByPort(portID)
	if err != nil {
		return nil, err
	}
	return rtr.GetRoute(module)
}
