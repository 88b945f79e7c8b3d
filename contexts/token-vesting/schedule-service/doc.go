// Package scheduleservice contains the Tranche vesting schedule service.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package scheduleservice
