package booking

import (
	"github.com/m04kA/SMC-AssistanceService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// Имя последовательности номеров заявок (см. migrations/001_init.sql)
const requestNumberSequence = "booking_request_number_seq"
