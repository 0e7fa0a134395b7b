package app

// Relationship of the reported person to the employee.
type Relationship string

const (
	RelationshipSpouse        Relationship = "配偶"
	RelationshipParent        Relationship = "父母"
	RelationshipChild         Relationship = "子女"
	RelationshipSibling       Relationship = "兄弟姐妹"
	RelationshipOtherRelative Relationship = "其他亲属"
)

func (r Relationship) String() string {
	return string(r)
}

func (r Relationship) IsValid() bool {
	_, ok := allRelationshipMap[r]
	return ok
}

var allRelationships = []Relationship{
	RelationshipSpouse,
	RelationshipParent,
	RelationshipChild,
	RelationshipSibling,
	RelationshipOtherRelative,
}

func AllRelationships() []Relationship {
	return allRelationships
}

var allRelationshipMap = map[Relationship]struct{}{
	RelationshipSpouse:        {},
	RelationshipParent:        {},
	RelationshipChild:         {},
	RelationshipSibling:       {},
	RelationshipOtherRelative: {},
}
