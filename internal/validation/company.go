package validation

import (
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/guttosm/etmarket/internal/domain/dto"
)

// TickerPattern is the accepted ticker format: 2 to 5 upper case letters.
var TickerPattern = regexp.MustCompile(`^[A-Z]{2,5}$`)

// ValidateCompany checks a company payload.
func ValidateCompany(c dto.CompanyRequest) Result {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.Ticker, validation.Required, validation.Match(TickerPattern).Error("must be 2-5 upper case letters")),
		validation.Field(&c.Industry, validation.Required, validation.Length(1, 50)),
		validation.Field(&c.Sector, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&c.Website, validation.NilOrNotEmpty, is.URL, validation.By(absoluteURL)),
		validation.Field(&c.SharesOutstanding, validation.Min(int64(1))),
	)
	return fromOzzo(err)
}

// absoluteURL requires both a scheme and a host.
func absoluteURL(value any) error {
	var s string
	switch v := value.(type) {
	case *string:
		if v != nil {
			s = *v
		}
	case string:
		s = v
	}
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL with scheme and host")
	}
	return nil
}

func fromOzzo(err error) Result {
	if err == nil {
		return pass()
	}
	res := pass()
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		keys := make([]string, 0, len(fieldErrs))
		for k := range fieldErrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			res.fail("%s: %s", k, strings.TrimSpace(fieldErrs[k].Error()))
		}
		return res
	}
	res.fail("%v", err)
	return res
}
