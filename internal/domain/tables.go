package domain

// Tables lists the migrated models in dependency order.
var Tables = []interface{}{
	&Product{},
	&Sale{},
}
