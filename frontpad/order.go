package frontpad

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Branch addresses recognized for pickup orders. Baturina is the primary
// branch and needs no affiliate code.
const (
	BranchLesoparkovaya = "Ул. Лесопарковая, дом 27"
	BranchBaturina      = "Ул. Батурина, дом 30"

	lesoparkovayaAffiliate = "238"
)

// OrderItem is a single cart position. Article takes precedence over ID as
// the product key when both are set.
type OrderItem struct {
	ID       int64  `json:"id"`
	Article  string `json:"article"`
	Quantity int    `json:"quantity"`
}

// Order is an order to relay to the restaurant.
type Order struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`

	IsDelivery      bool   `json:"typeIsDelivery"`
	Street          string `json:"street"`
	HouseNumber     string `json:"houseNumber"`
	Entrance        string `json:"entrance"`
	Floor           string `json:"floor"`
	ApartmentNumber string `json:"apartmentNumber"`

	Branch string `json:"deliveryBranch"`

	DeliveryNow bool   `json:"deliveryNow"`
	Time        string `json:"time"`

	Comment string      `json:"comment"`
	Persons int         `json:"persons"`
	Items   []OrderItem `json:"items"`
}

var nonDigits = regexp.MustCompile(`\D`)

// FormatPhone normalizes a phone number for the API: digits only, a leading
// 8 replaced with 7, prefixed with +. Empty input stays empty.
func FormatPhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "8") {
		digits = "7" + digits[1:]
	}
	return "+" + digits
}

// Encode builds the form body for a new_order request.
func (o Order) Encode(secret string) url.Values {
	form := url.Values{}
	form.Set("secret", secret)

	setNonEmpty(form, "name", o.Name)
	setNonEmpty(form, "phone", FormatPhone(o.Phone))
	setNonEmpty(form, "mail", o.Email)

	persons := o.Persons
	if persons < 1 {
		persons = 1
	}
	form.Set("person", strconv.Itoa(persons))

	setNonEmpty(form, "descr", o.buildComment())

	if o.IsDelivery {
		setNonEmpty(form, "street", o.Street)
		setNonEmpty(form, "home", o.HouseNumber)
		setNonEmpty(form, "pod", o.Entrance)
		setNonEmpty(form, "et", o.Floor)
		setNonEmpty(form, "apart", o.ApartmentNumber)
	} else if o.Branch == BranchLesoparkovaya {
		form.Set("affiliate", lesoparkovayaAffiliate)
	}

	for i, item := range o.Items {
		key := item.Article
		if key == "" {
			key = strconv.FormatInt(item.ID, 10)
		}
		form.Set(fmt.Sprintf("product[%d]", i), key)
		form.Set(fmt.Sprintf("product_kol[%d]", i), strconv.Itoa(item.Quantity))
	}

	return form
}

// buildComment assembles the descr field: scheduled time first, then a
// pickup marker, then the customer's comment.
func (o Order) buildComment() string {
	var parts []string

	if !o.IsDelivery {
		parts = append(parts, "САМОВЫВОЗ")
	}
	if o.Comment != "" {
		parts = append(parts, fmt.Sprintf("Комментарий: %s", o.Comment))
	}

	descr := strings.Join(parts, ". ")

	if !o.DeliveryNow && strings.Contains(o.Time, " ") && strings.Contains(o.Time, ":") {
		timeComment := fmt.Sprintf("Клиент заказал на %s", o.Time)
		if descr != "" {
			descr = timeComment + ". " + descr
		} else {
			descr = timeComment
		}
	}

	return descr
}

func setNonEmpty(form url.Values, key, value string) {
	if value != "" {
		form.Set(key, value)
	}
}
