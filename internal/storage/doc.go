// Package storage provides the ordered storage primitives backing the IBC
// store on top of cosmossdk.io/collections: an indexed ascending queue and a
// key sorted linked map, plus the budgets that bound their maintenance work.
package storage
