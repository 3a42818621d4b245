package schema

// Sample returns the built-in graph used when no schema document is
// configured. It models a small CRM: accounts with contacts, opportunities,
// quotes, cases and orders. Each call builds a fresh graph.
func Sample() *Graph {
	g, err := sampleBuilder().Build()
	if err != nil {
		panic("schema: sample graph is invalid: " + err.Error())
	}
	return g
}

func str(name string, synonyms ...string) Field {
	return Field{Name: name, Type: TypeString, Synonyms: synonyms}
}

func num(name string, synonyms ...string) Field {
	return Field{Name: name, Type: TypeNumber, Synonyms: synonyms}
}

func date(name string, synonyms ...string) Field {
	return Field{Name: name, Type: TypeDate, Synonyms: synonyms}
}

func flag(name string, synonyms ...string) Field {
	return Field{Name: name, Type: TypeBoolean, Synonyms: synonyms}
}

func pick(name string, synonyms ...string) Field {
	return Field{Name: name, Type: TypePicklist, Synonyms: synonyms}
}

func ref(name, target string, synonyms ...string) Field {
	return Field{Name: name, Type: TypeReference, ReferenceTo: target, Synonyms: synonyms}
}

func sampleBuilder() *Builder {
	b := NewBuilder()

	b.AddObject(Object{
		Name:          "Account",
		Synonyms:      []string{"company", "customer"},
		DefaultFields: []string{"Id", "Name"},
		SortFields:    []string{"AnnualRevenue", "Name", "CreatedDate"},
		Fields: []Field{
			str("Id", "ID"), str("Name", "account name", "company name"),
			pick("Type"), pick("Industry", "sector"),
			num("AnnualRevenue", "revenue"), num("NumberOfEmployees", "employees", "headcount"),
			pick("Rating"), str("Phone"), str("Website"),
			str("BillingCity", "city"), str("BillingState", "state"), str("BillingCountry", "country"),
			{Name: "ParentId", Type: TypeReference, ReferenceTo: "Account", RelationshipName: "ChildAccounts", Synonyms: []string{"parent account"}},
			ref("OwnerId", "User", "owner"),
			date("CreatedDate"), date("LastModifiedDate"), flag("IsDeleted"),
		},
	})

	b.AddObject(Object{
		Name:          "Contact",
		Synonyms:      []string{"person"},
		DefaultFields: []string{"Id", "Name"},
		SortFields:    []string{"LastName", "CreatedDate"},
		Fields: []Field{
			str("Id", "ID"), str("Name", "full name"), str("FirstName"), str("LastName", "surname"),
			str("Email", "email address"), str("Phone"), str("Title", "job title"), str("Department"),
			str("MailingCity", "city"), str("MailingState", "state"), str("MailingCountry", "country"),
			ref("AccountId", "Account"), ref("OwnerId", "User", "owner"),
			date("Birthdate", "birthday"), pick("LeadSource", "source"),
			date("CreatedDate"), date("LastModifiedDate"), flag("IsDeleted"),
		},
	})

	b.AddObject(Object{
		Name:          "Opportunity",
		Synonyms:      []string{"deal"},
		DefaultFields: []string{"Id", "Name"},
		SortFields:    []string{"Amount", "CloseDate", "CreatedDate"},
		Fields: []Field{
			str("Id", "ID"), str("Name", "opportunity name", "deal name"),
			pick("StageName", "stage"), num("Amount", "value"), num("Probability"),
			date("CloseDate"), pick("Type"), pick("LeadSource", "source"),
			flag("IsClosed"), flag("IsWon"),
			ref("AccountId", "Account"), ref("OwnerId", "User", "owner"),
			date("CreatedDate"), date("LastModifiedDate"), flag("IsDeleted"),
		},
	})

	b.AddObject(Object{
		Name:          "OpportunityLineItem",
		Synonyms:      []string{"opportunity product"},
		DefaultFields: []string{"Id", "Quantity", "UnitPrice"},
		SortFields:    []string{"TotalPrice"},
		Fields: []Field{
			str("Id", "ID"), str("Name"), num("Quantity", "qty"), num("UnitPrice", "price"),
			num("TotalPrice", "total price"), ref("OpportunityId", "Opportunity"),
			ref("Product2Id", "Product2", "product"), date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "Quote",
		DefaultFields: []string{"Id", "Name"},
		SortFields:    []string{"GrandTotal", "ExpirationDate"},
		Fields: []Field{
			str("Id", "ID"), str("Name", "quote name"), pick("Status"),
			date("ExpirationDate", "expiration"), num("GrandTotal", "grand total"),
			ref("OpportunityId", "Opportunity"), date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "QuoteLineItem",
		DefaultFields: []string{"Id", "Quantity", "UnitPrice"},
		SortFields:    []string{"TotalPrice"},
		Fields: []Field{
			str("Id", "ID"), str("LineNumber"), num("Quantity", "qty"), num("UnitPrice", "price"),
			num("TotalPrice", "total price"), num("Discount"),
			ref("QuoteId", "Quote"), ref("Product2Id", "Product2", "product"), date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "Product2",
		Label:         "Product",
		DefaultFields: []string{"Id", "Name"},
		SortFields:    []string{"Name"},
		Fields: []Field{
			str("Id", "ID"), str("Name", "product name"), str("ProductCode", "code", "sku"),
			pick("Family", "product family"), flag("IsActive"), date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "Case",
		Synonyms:      []string{"ticket", "support case"},
		DefaultFields: []string{"Id", "CaseNumber", "Subject"},
		SortFields:    []string{"CreatedDate"},
		Fields: []Field{
			str("Id", "ID"), str("CaseNumber", "case number"), str("Subject"),
			pick("Status"), pick("Priority"), pick("Origin"), flag("IsClosed"), date("ClosedDate"),
			ref("AccountId", "Account"), ref("ContactId", "Contact"), ref("OwnerId", "User", "owner"),
			date("CreatedDate"), date("LastModifiedDate"), flag("IsDeleted"),
		},
	})

	b.AddObject(Object{
		Name:          "CaseComment",
		DefaultFields: []string{"Id", "CommentBody"},
		SortFields:    []string{"CreatedDate"},
		Fields: []Field{
			str("Id", "ID"), str("CommentBody", "body", "comment"), flag("IsPublished"),
			ref("ParentId", "Case"), date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "Lead",
		Synonyms:      []string{"prospect"},
		DefaultFields: []string{"Id", "Name"},
		SortFields:    []string{"CreatedDate"},
		Fields: []Field{
			str("Id", "ID"), str("Name"), str("FirstName"), str("LastName", "surname"),
			str("Company"), str("Email", "email address"), pick("Status"),
			pick("LeadSource", "source"), pick("Industry"), num("AnnualRevenue", "revenue"),
			pick("Rating"), flag("IsConverted"), date("ConvertedDate"),
			ref("OwnerId", "User", "owner"), date("CreatedDate"), date("LastModifiedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "User",
		Synonyms:      []string{"rep"},
		DefaultFields: []string{"Id", "Name"},
		SortFields:    []string{"LastLoginDate", "Name"},
		Fields: []Field{
			str("Id", "ID"), str("Name"), str("Username"), str("Email", "email address"),
			str("Title"), flag("IsActive"), date("LastLoginDate", "last login"), date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "Task",
		Synonyms:      []string{"activity", "todo"},
		DefaultFields: []string{"Id", "Subject"},
		SortFields:    []string{"ActivityDate"},
		Fields: []Field{
			str("Id", "ID"), str("Subject"), pick("Status"), pick("Priority"),
			date("ActivityDate", "due date"),
			ref("WhoId", "Contact"), ref("WhatId", "Opportunity"), ref("OwnerId", "User", "owner"),
			date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "Order",
		DefaultFields: []string{"Id", "OrderNumber"},
		SortFields:    []string{"TotalAmount", "EffectiveDate"},
		Fields: []Field{
			str("Id", "ID"), str("OrderNumber", "order number"), pick("Status"),
			date("EffectiveDate"), num("TotalAmount", "total amount"),
			ref("AccountId", "Account"), date("CreatedDate"),
		},
	})

	b.AddObject(Object{
		Name:          "OrderItem",
		DefaultFields: []string{"Id", "Quantity", "UnitPrice"},
		SortFields:    []string{"TotalPrice"},
		Fields: []Field{
			str("Id", "ID"), str("OrderItemNumber"), num("Quantity", "qty"), num("UnitPrice", "price"),
			num("TotalPrice", "total price"), ref("OrderId", "Order"), ref("Product2Id", "Product2", "product"),
		},
	})

	return b
}
