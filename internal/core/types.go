package core

import "admissioncore/pkg/domain"

type (
	Programme         = domain.Programme
	Application       = domain.Application
	ApplicationRecord = domain.ApplicationRecord
	ApplicationFilter = domain.ApplicationFilter
	ProgrammeResult   = domain.ProgrammeResult
	AllocationResult  = domain.AllocationResult
	Transaction       = domain.Transaction
	TransactionView   = domain.TransactionView
	PersistentStore   = domain.PersistentStore
)
