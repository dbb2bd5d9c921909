package model

// Unit 物资单位
type Unit string

const (
	UnitPiece Unit = "piece" // 个
	UnitSet   Unit = "set"   // 套
)

// Valid 是否为已知单位
func (u Unit) Valid() bool {
	return u == UnitPiece || u == UnitSet
}

// OrganizationType 机构类型
type OrganizationType string

const (
	OrganizationHospital       OrganizationType = "hospital"        // 医院
	OrganizationFireDepartment OrganizationType = "fire_department" // 消防局
	OrganizationPoliceStation  OrganizationType = "police_station"  // 警局
	OrganizationOther          OrganizationType = "other"           // 其他
)

// Valid 是否为已知机构类型
func (t OrganizationType) Valid() bool {
	switch t {
	case OrganizationHospital, OrganizationFireDepartment, OrganizationPoliceStation, OrganizationOther:
		return true
	}
	return false
}

// ContactMethod 其他联系方式
type ContactMethod string

const (
	ContactNotSet ContactMethod = "_not_set_" // 未设定
	ContactLine   ContactMethod = "line"
	ContactFB     ContactMethod = "fb"
	ContactEmail  ContactMethod = "email"
)

// Valid 是否为已知联系方式，空值视为未设定
func (c ContactMethod) Valid() bool {
	switch c {
	case "", ContactNotSet, ContactLine, ContactFB, ContactEmail:
		return true
	}
	return false
}

// City 县市代码
type City string

var cities = map[City]string{
	"KLU": "基隆市",
	"TPH": "新北市",
	"TPE": "台北市",
	"TYC": "桃园市",
	"HSH": "新竹县",
	"HSC": "新竹市",
	"MAL": "苗栗县",
	"TXG": "台中市",
	"CWH": "彰化县",
	"NTO": "南投县",
	"YLH": "云林县",
	"CHY": "嘉义县",
	"CYI": "嘉义市",
	"TNN": "台南市",
	"KHH": "高雄市",
	"LNN": "连江县",
	"ILN": "宜兰县",
	"PEH": "澎湖县",
	"KMN": "金门县",
	"IUH": "屏东县",
	"TTT": "台东县",
	"HWA": "花莲县",
}

// Valid 是否为已知县市
func (c City) Valid() bool {
	_, ok := cities[c]
	return ok
}

// Label 县市名称
func (c City) Label() string {
	return cities[c]
}
