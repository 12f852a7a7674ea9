package validators

import "go.mongodb.org/mongo-driver/bson"

var AssetValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"kind",
			"status",
			"location",
			"revision",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 300,
			},

			"kind": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Book",
					"Video",
				},
			},

			"status": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 40,
			},

			"year": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  9999,
			},

			"cost": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
			},

			"location": bson.M{
				"bsonType": "object",
				"required": []string{"id", "name"},
				"properties": bson.M{
					"id":   bson.M{"bsonType": "string"},
					"name": bson.M{"bsonType": "string"},
				},
			},

			"book": bson.M{
				"bsonType": "object",
				"required": []string{"author", "isbn", "dewey_index"},
				"properties": bson.M{
					"author":      bson.M{"bsonType": "string"},
					"isbn":        bson.M{"bsonType": "string"},
					"dewey_index": bson.M{"bsonType": "string"},
				},
			},

			"video": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"director": bson.M{"bsonType": "string"},
				},
			},

			"revision": bson.M{
				"bsonType": []string{"int", "long"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var StatusValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name"},
		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 40,
			},
			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
		},
	},
}
