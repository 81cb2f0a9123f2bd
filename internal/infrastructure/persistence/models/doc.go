// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags. Each model carries ToDomain/FromDomain mappers used by the
// repositories in the parent package.
//
// Tables:
//   - users: identity directory (identity.go)
//   - budgets, cash_requests, expenses: finance records (finance.go)
package models
