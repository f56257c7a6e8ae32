/*
Package anyclient holds the closed set of light client implementations known
to the IBC store. Client states, consensus states and client messages are
persisted and relayed as protobuf Any values; the type URL selects the variant
and every operation is delegated to the concrete client.
*/
package anyclient
