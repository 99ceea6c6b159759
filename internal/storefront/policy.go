package storefront

// Collection is one cached entity list.
type Collection string

const (
	CollectionProducts   Collection = "products"
	CollectionOrders     Collection = "orders"
	CollectionCategories Collection = "categories"
	CollectionStaff      Collection = "staff"
	CollectionCustomers  Collection = "customers"
	CollectionSettings   Collection = "settings"
)

// AllCollections is the initial load set.
var AllCollections = []Collection{
	CollectionProducts, CollectionOrders, CollectionCategories,
	CollectionStaff, CollectionCustomers, CollectionSettings,
}

// Write is a kind of mutating action.
type Write string

const (
	WriteProductCreate   Write = "product.create"
	WriteProductUpdate   Write = "product.update"
	WriteProductDelete   Write = "product.delete"
	WriteProductSeed     Write = "product.seed"
	WriteCategoryAdd     Write = "category.add"
	WriteCategoryDelete  Write = "category.delete"
	WriteStaffAdd        Write = "staff.add"
	WriteStaffDelete     Write = "staff.delete"
	WriteOrderCreate     Write = "order.create"
	WriteOrderStatus     Write = "order.status"
	WriteCustomerRebuild Write = "customer.rebuild"
	WriteSettingUpdate   Write = "setting.update"
)

// Policy maps each write to the collections reloaded after it succeeds.
// A nil entry means the cache is patched in place with the written value.
var Policy = map[Write][]Collection{
	WriteProductCreate:   {CollectionProducts},
	WriteProductUpdate:   nil,
	WriteProductDelete:   nil,
	WriteProductSeed:     {CollectionProducts},
	WriteCategoryAdd:     nil,
	WriteCategoryDelete:  nil,
	WriteStaffAdd:        {CollectionStaff},
	WriteStaffDelete:     nil,
	WriteOrderCreate:     {CollectionOrders, CollectionCustomers},
	WriteOrderStatus:     nil,
	WriteCustomerRebuild: {CollectionCustomers},
	WriteSettingUpdate:   nil,
}

// Reloads returns the collections to refetch after w.
func Reloads(w Write) []Collection {
	return Policy[w]
}
