package validators

import "go.mongodb.org/mongo-driver/bson"

var HoldValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"asset_id",
			"card_id",
			"placed",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"asset_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"card_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"placed": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var CheckoutValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"asset_id",
			"card_id",
			"since",
			"until",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"asset_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"card_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"since": bson.M{
				"bsonType": "date",
			},

			"until": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var CheckoutHistoryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"asset_id",
			"card_id",
			"checked_out",
			"open",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"asset_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"card_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"checked_out": bson.M{
				"bsonType": "date",
			},

			"checked_in": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"open": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
