package host

// KeyEventHistoryPrefix prefixes the queue of IBC events bucketed by host height.
const KeyEventHistoryPrefix = "eventHistory"

// KeyParams is the store key of the IBC store parameters.
const KeyParams = "params"

// EventHistoryPrefixKey returns the prefix of the event history queue.
func EventHistoryPrefixKey() []byte {
	return []byte(KeyEventHistoryPrefix + "/")
}

// ParamsKey returns the store key of the parameters.
func ParamsKey() []byte {
	return []byte(KeyParams)
}
