// Package domain defines the persistence model for client records. The
// Client type is mapped with GORM and is the only entity of the application.
package domain

// Client is one person's contact and identification data.
//
// Fields:
//   - ID: integer primary key assigned by SQLite (AUTOINCREMENT, never reused).
//   - Name, Address, Phone: required free text.
//   - CPF, RG: Brazilian national id numbers; each unique across live records.
//   - Email: unique across live records.
//
// There is no soft-delete column: a deleted record frees its CPF, RG and
// Email for reuse.
type Client struct {
	ID      uint   `json:"id"      gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name"    gorm:"type:text;not null"`
	Address string `json:"address" gorm:"type:text;not null"`
	Phone   string `json:"phone"   gorm:"type:text;not null"`
	CPF     string `json:"cpf"     gorm:"column:cpf;type:text;not null;uniqueIndex:ux_clients_cpf"`
	RG      string `json:"rg"      gorm:"column:rg;type:text;not null;uniqueIndex:ux_clients_rg"`
	Email   string `json:"email"   gorm:"type:text;not null;uniqueIndex:ux_clients_email"`
}

// TableName returns the database table name for Client.
func (Client) TableName() string { return "clients" }

// Input returns the user-supplied part of the record.
func (c Client) Input() ClientInput {
	return ClientInput{
		Name:    c.Name,
		Address: c.Address,
		Phone:   c.Phone,
		CPF:     c.CPF,
		RG:      c.RG,
		Email:   c.Email,
	}
}

// ClientInput carries the six fields a user fills in to register a client.
// The id is never part of the input; the store assigns it.
type ClientInput struct {
	Name    string
	Address string
	Phone   string
	CPF     string
	RG      string
	Email   string
}

// Value returns the input value for field f, or "" for an unknown field.
func (in ClientInput) Value(f Field) string {
	switch f {
	case FieldName:
		return in.Name
	case FieldAddress:
		return in.Address
	case FieldPhone:
		return in.Phone
	case FieldCPF:
		return in.CPF
	case FieldRG:
		return in.RG
	case FieldEmail:
		return in.Email
	}
	return ""
}

// Set assigns v to field f. Unknown fields are ignored.
func (in *ClientInput) Set(f Field, v string) {
	switch f {
	case FieldName:
		in.Name = v
	case FieldAddress:
		in.Address = v
	case FieldPhone:
		in.Phone = v
	case FieldCPF:
		in.CPF = v
	case FieldRG:
		in.RG = v
	case FieldEmail:
		in.Email = v
	}
}

// Field names a user-supplied column of the clients table.
type Field string

const (
	FieldName    Field = "name"
	FieldAddress Field = "address"
	FieldPhone   Field = "phone"
	FieldCPF     Field = "cpf"
	FieldRG      Field = "rg"
	FieldEmail   Field = "email"
)

// InputFields lists the user-supplied fields in form order.
var InputFields = []Field{FieldName, FieldAddress, FieldPhone, FieldCPF, FieldRG, FieldEmail}

// UniqueFields lists the fields with a uniqueness constraint, in the order
// conflicts are reported when the driver does not name the column.
var UniqueFields = []Field{FieldCPF, FieldRG, FieldEmail}

// IsUnique reports whether f carries a uniqueness constraint.
func (f Field) IsUnique() bool {
	for _, u := range UniqueFields {
		if u == f {
			return true
		}
	}
	return false
}
