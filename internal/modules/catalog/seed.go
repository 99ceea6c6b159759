package catalog

// FallbackImage is shown when a product image fails to load.
const FallbackImage = "https://images.unsplash.com/photo-1615485290382-441e4d049cb5?auto=format&fit=crop&q=80&w=800"

// DefaultCategories is the category list a fresh shop starts with.
func DefaultCategories() []string {
	return []string{"মধু ও তেল", "শুকনো খাবার", "মশলা ও গুড়", "ফল ও সবজি", "স্বাস্থ্য", "অন্যান্য"}
}

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + "?auto=format&fit=crop&q=80&w=800"
}

// SeedProducts is the built-in catalog shown when the store has no products.
// A fresh slice is returned on every call.
func SeedProducts() []Product {
	return []Product{
		{ID: "1", Name: "অর্গানিক মধু", Price: 450, Description: "সুন্দরবনের খাঁটি প্রাকৃতিক মধু। কোনো প্রকার ভেজালহীন এবং স্বাস্থ্যসম্মত।", Image: unsplash("photo-1587049352846-4a222e784d38"), Category: "খাবার", Stock: 25, Unit: "গ্রাম"},
		{ID: "2", Name: "কাঁচা চিনা বাদাম", Price: 180, Description: "সরাসরি কৃষকের ঘর থেকে সংগৃহীত পুষ্টিকর ও মচমচে চিনা বাদাম।", Image: unsplash("photo-1552345386-2401c50f8194"), Category: "খাবার", Stock: 60, Unit: "কেজি"},
		{ID: "3", Name: "গাওয়া ঘি", Price: 320, Description: "বাড়িতে তৈরি খাঁটি গাওয়া ঘি। অতুলনীয় স্বাদ ও সুবাস।", Image: unsplash("photo-1626128665085-483747621778"), Category: "খাবার", Stock: 12, Unit: "গ্রাম"},
		{ID: "4", Name: "প্রিমিয়াম চা পাতা", Price: 260, Description: "সিলেটের বাগান থেকে বাছাইকৃত কচি চা পাতা। রিফ্রেশিং চা।", Image: unsplash("photo-1594631252845-29fc458695d7"), Category: "পানীয়", Stock: 40, Unit: "গ্রাম"},
		{ID: "5", Name: "কালো জিরা তেল", Price: 120, Description: "স্বাস্থ্য রক্ষায় উপকারী প্রাকৃতিক কালো জিরার তেল।", Image: unsplash("photo-1610725664285-7c47f633a1e2"), Category: "স্বাস্থ্য", Stock: 15, Unit: "মিলি"},
		{ID: "6", Name: "অর্গানিক গুড়", Price: 185, Description: "কোনো প্রকার চিনি বা কেমিক্যাল ছাড়া তৈরি খাঁটি আখের গুড়।", Image: unsplash("photo-1622359265243-7be1a28a383d"), Category: "খাবার", Stock: 30, Unit: "কেজি"},
		{ID: "7", Name: "কাঠবাদাম (Almond)", Price: 850, Description: "প্রিমিয়াম কোয়ালিটি কাঠবাদাম, যা এনার্জি ও পুষ্টির সেরা উৎস।", Image: unsplash("photo-1508061253366-f7da158b6d46"), Category: "খাবার", Stock: 15, Unit: "কেজি"},
		{ID: "8", Name: "মরিয়ম খেজুর", Price: 950, Description: "সরাসরি আরব থেকে আমদানিকৃত সুস্বাদু ও পুষ্টিকর মরিয়ম খেজুর।", Image: unsplash("photo-1593361425126-c29411910795"), Category: "খাবার", Stock: 20, Unit: "কেজি"},
		{ID: "9", Name: "ঘানি ভাঙা সরিষার তেল", Price: 240, Description: "প্রাকৃতিক উপায়ে ঘানি ভাঙা ১০০% খাঁটি সরিষার তেল।", Image: unsplash("photo-1474979266404-7eaacbcd87c5"), Category: "খাবার", Stock: 50, Unit: "লিটার"},
		{ID: "10", Name: "অর্গানিক হলুদ গুঁড়া", Price: 130, Description: "বাড়িতে তৈরি ভেজালমুক্ত খাঁটি হলুদ গুঁড়া। রান্নায় আনবে প্রাকৃতিক রং।", Image: unsplash("photo-1615485290382-441e4d049cb5"), Category: "খাবার", Stock: 100, Unit: "গ্রাম"},
		{ID: "11", Name: "শুকনো মরিচ গুঁড়া", Price: 150, Description: "ঝাল ও রঙের সঠিক ভারসাম্য বজায় রাখা খাঁটি মরিচ গুঁড়া।", Image: unsplash("photo-1591871937453-da4c5c16263a"), Category: "খাবার", Stock: 80, Unit: "গ্রাম"},
		{ID: "12", Name: "হ্যান্ডমেড জুট ব্যাগ", Price: 350, Description: "পরিবেশবান্ধব ও মজবুত পাটের ব্যাগ। দৈনন্দিন ব্যবহারের জন্য দারুণ।", Image: unsplash("photo-1544816153-12ad5d7133a1"), Category: "অন্যান্য", Stock: 45, Unit: "টি"},
	}
}
