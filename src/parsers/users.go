package parsers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/utils"
)

var userColumns = []string{
	"id", "has_email", "phone_country", "terms_version", "created_date",
	"state", "country", "birth_year", "kyc", "failed_sign_in_attempts",
}

type UserParser struct{}

func NewUserParser() *UserParser {
	return &UserParser{}
}

// Parse reads the users table. A missing terms_version is defaulted to the
// sentinel so the latest-terms comparison stays total. The optional trailing
// is_fraudster column (training exports only) is read when present.
func (p *UserParser) Parse(file io.Reader) ([]models.User, error) {
	header, records, err := readAll(file)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	if err := requireColumns(idx, "users", userColumns...); err != nil {
		return nil, err
	}
	_, hasFraudColumn := idx["is_fraudster"]

	users := make([]models.User, 0, len(records))
	for _, record := range records {
		id := field(record, idx, "id")
		if _, err := uuid.Parse(id); err != nil {
			logger.L.Warn("Skipping user with invalid id", "id", id)
			continue
		}
		created, err := utils.ParseTimestamp(field(record, idx, "created_date"))
		if err != nil {
			logger.L.Warn("Skipping user with invalid created date", "id", id, "error", err)
			continue
		}

		terms := field(record, idx, "terms_version")
		if terms == "" {
			terms = models.DefaultTermsVersion
		}
		birthYear, _ := strconv.Atoi(field(record, idx, "birth_year"))
		failedAttempts, _ := strconv.Atoi(field(record, idx, "failed_sign_in_attempts"))

		u := models.User{
			ID:                   id,
			HasEmail:             utils.ParseBool(field(record, idx, "has_email")),
			PhoneCountry:         field(record, idx, "phone_country"),
			TermsVersion:         terms,
			CreatedDate:          created,
			State:                field(record, idx, "state"),
			Country:              strings.ToUpper(field(record, idx, "country")),
			BirthYear:            birthYear,
			KYC:                  field(record, idx, "kyc"),
			FailedSignInAttempts: failedAttempts,
		}
		if hasFraudColumn {
			u.IsFraudster = utils.ParseBool(field(record, idx, "is_fraudster"))
		}
		users = append(users, u)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("users table contained no usable rows")
	}
	return users, nil
}
