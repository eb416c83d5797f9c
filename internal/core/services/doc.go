// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// PayrollService owns record-level semantics: validation, field
// normalisation, id matching and derived payroll figures. Every
// operation is a full load, an in-memory transform and a full save
// against a driven.RecordStore.
package services
