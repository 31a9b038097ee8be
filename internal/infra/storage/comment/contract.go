package comment

import "github.com/m04kA/SMC-AssistanceService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
