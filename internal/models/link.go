package models

// Link représente un lien raccourci dans la base de données.
// La table garde le nom et les colonnes d'origine : users(user, hash, url).
// Les champs vides sont refusés par le repository avant toute écriture.
type Link struct {
	Owner string `gorm:"column:user;type:text;index:idx_users_user"`
	Hash  string `gorm:"column:hash;type:text;primaryKey"`
	URL   string `gorm:"column:url;type:text"`
}

// TableName fixe le nom de la table partagée avec les bases existantes.
func (Link) TableName() string {
	return "users"
}
