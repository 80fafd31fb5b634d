package shopping

func seedLists() []List {
	return []List{
		{
			ID:   "list-1",
			Name: "Groceries",
			Items: []Item{
				{ID: "item-1-1", Name: "Milk", Quantity: 1, Completed: false},
				{ID: "item-1-2", Name: "Bread", Quantity: 2, Completed: false},
				{ID: "item-1-3", Name: "Eggs", Quantity: 1, Completed: true},
			},
		},
		{
			ID:   "list-2",
			Name: "Hardware Store",
			Items: []Item{
				{ID: "item-2-1", Name: "Nails", Quantity: 100, Completed: false},
				{ID: "item-2-2", Name: "Hammer", Quantity: 1, Completed: true},
			},
		},
	}
}
