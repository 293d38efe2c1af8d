package leaveplan

import (
	"errors"
	"strings"

	leaveplanerrors "go-leave/internal/leaveplan/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveplanerrors.ErrPlanNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_plan_company_name" {
			return leaveplanerrors.ErrPlanNameAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_plan_company_name") {
		return leaveplanerrors.ErrPlanNameAlreadyExists
	}

	return err
}
